package mathpdf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// Not parallel: tests modify the environment and userKaTeXScriptPath.
func TestResolveKaTeXScript(t *testing.T) {
	dir := t.TempDir()
	envScript := filepath.Join(dir, "env.js")
	argScript := filepath.Join(dir, "arg.js")
	userScript := filepath.Join(dir, "user.js")
	for path, content := range map[string]string{envScript: "env", argScript: "arg", userScript: "user"} {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	orig := userKaTeXScriptPath
	t.Cleanup(func() { userKaTeXScriptPath = orig })

	tests := []struct {
		name       string
		source     string
		path       string
		env        string
		user       string
		want       string
		wantOrigin string
		wantErr    error
	}{
		{name: "inline source wins", source: "inline js", path: argScript, env: envScript, want: "inline js", wantOrigin: "inline"},
		{name: "explicit path over env", path: argScript, env: envScript, user: userScript, want: "arg", wantOrigin: argScript},
		{name: "env over user file", env: envScript, user: userScript, want: "env", wantOrigin: envScript},
		{name: "user file", user: userScript, want: "user", wantOrigin: userScript},
		{name: "nothing installed", user: filepath.Join(dir, "absent.js")},
		{name: "unknown home", user: ""},
		{name: "unreadable explicit path", path: filepath.Join(dir, "missing.js"), wantErr: ErrKaTeXScript},
		{name: "unreadable env path", env: filepath.Join(dir, "missing.js"), wantErr: ErrKaTeXScript},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(KaTeXScriptEnv, tt.env)
			user := tt.user
			userKaTeXScriptPath = func() string { return user }

			got, origin, err := resolveKaTeXScript(tt.source, tt.path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want || origin != tt.wantOrigin {
				t.Errorf("got (%q, %q), want (%q, %q)", got, origin, tt.want, tt.wantOrigin)
			}
		})
	}
}
