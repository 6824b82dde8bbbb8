package s3

import "testing"

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "id/original.pdf", want: "id/original.pdf"},
		{name: "simple prefix", prefix: "vault", key: "id/original.pdf", want: "vault/id/original.pdf"},
		{name: "prefix trailing slash", prefix: "vault/", key: "id/original.pdf", want: "vault/id/original.pdf"},
		{name: "prefix and key slashes", prefix: "/vault/", key: "/id/original.pdf", want: "vault/id/original.pdf"},
		{name: "empty key", prefix: "vault", key: "", want: "vault"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestStripPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "id/original.pdf", want: "id/original.pdf"},
		{name: "prefix removed", prefix: "vault", key: "vault/id/original.pdf", want: "id/original.pdf"},
		{name: "common prefix listing", prefix: "vault", key: "vault/id/", want: "id/"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := stripPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("stripPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestNormalizePrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{raw: "", want: ""},
		{raw: "  vault/  ", want: "vault"},
		{raw: "/vault/sub/", want: "vault/sub"},
	}

	for _, tt := range tests {
		if got := normalizePrefix(tt.raw); got != tt.want {
			t.Fatalf("normalizePrefix(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
