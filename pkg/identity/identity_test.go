package identity

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		repoURL   string
		wantOwner string
		wantSlug  string
		wantErr   bool
	}{
		{name: "git_suffix", repoURL: "https://example.com/org/repo.git", wantOwner: "org", wantSlug: "repo"},
		{name: "trailing_slash", repoURL: "https://example.com/org/repo/", wantOwner: "org", wantSlug: "repo"},
		{name: "plain", repoURL: "https://example.com/org/repo", wantOwner: "org", wantSlug: "repo"},
		{name: "nested_group_keeps_component_left_of_slug", repoURL: "https://example.com/group/org/repo.git", wantOwner: "org", wantSlug: "repo"},
		{name: "empty_path", repoURL: "https://example.com", wantErr: true},
		{name: "missing_owner", repoURL: "https://example.com/repo.git", wantErr: true},
		{name: "missing_slug", repoURL: "https://example.com/org/.git", wantErr: true},
		{name: "bare_path", repoURL: "/acme/widgets.git", wantOwner: "acme", wantSlug: "widgets"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, slug, err := Parse(tt.repoURL)
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if owner != tt.wantOwner {
				t.Errorf("Parse() owner = %v, want %v", owner, tt.wantOwner)
			}
			if slug != tt.wantSlug {
				t.Errorf("Parse() slug = %v, want %v", slug, tt.wantSlug)
			}
		})
	}
}
