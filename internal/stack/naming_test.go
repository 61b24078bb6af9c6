package stack

import "testing"

func TestCamelCase(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "multi segment",
			input: "app-tag-test",
			want:  "appTagTest",
		},
		{
			name:  "single segment",
			input: "a",
			want:  "a",
		},
		{
			name:  "single upper segment",
			input: "APP",
			want:  "app",
		},
		{
			name:  "mixed case segments",
			input: "a-B-c",
			want:  "aBC",
		},
		{
			name:  "all caps later segment",
			input: "my-APP-name",
			want:  "myAppName",
		},
		{
			name:  "adjacent hyphens skipped",
			input: "app--tag---test",
			want:  "appTagTest",
		},
		{
			name:  "leading and trailing hyphens",
			input: "-app-tag-",
			want:  "appTag",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CamelCase(tt.input); got != tt.want {
				t.Errorf("CamelCase(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewIdentity(t *testing.T) {
	id := NewIdentity("app-tag-test", "test")

	if id.FullName != "app-tag-test-test" {
		t.Errorf("FullName = %q, want %q", id.FullName, "app-tag-test-test")
	}
	if id.CanonicalName != "appTagTestTest" {
		t.Errorf("CanonicalName = %q, want %q", id.CanonicalName, "appTagTestTest")
	}
}

func TestNewIdentityDeterministic(t *testing.T) {
	a := NewIdentity("app-tag", "name")
	b := NewIdentity("app-tag", "name")

	if a != b {
		t.Errorf("identical inputs produced different identities: %+v vs %+v", a, b)
	}
}
