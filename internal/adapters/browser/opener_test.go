package browser

import (
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "trello short url", url: "https://trello.com/c/Xy12Ab", wantErr: false},
		{name: "plain http", url: "http://localhost:8080/card", wantErr: false},
		{name: "file scheme", url: "file:///etc/passwd", wantErr: true},
		{name: "javascript scheme", url: "javascript:alert(1)", wantErr: true},
		{name: "relative", url: "/c/Xy12Ab", wantErr: true},
		{name: "empty", url: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestOpenURL_PlatformCommand(t *testing.T) {
	tests := []struct {
		goos     string
		wantName string
		wantArgs int
		wantErr  bool
	}{
		{goos: "darwin", wantName: "open", wantArgs: 1},
		{goos: "linux", wantName: "xdg-open", wantArgs: 1},
		{goos: "windows", wantName: "cmd", wantArgs: 4},
		{goos: "plan9", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			var gotName string
			var gotArgs []string
			o := &Opener{goos: tt.goos, run: func(name string, args ...string) error {
				gotName = name
				gotArgs = args
				return nil
			}}

			err := o.OpenURL("https://trello.com/c/Xy12Ab")
			if (err != nil) != tt.wantErr {
				t.Fatalf("OpenURL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if gotName != tt.wantName {
				t.Errorf("command = %q, want %q", gotName, tt.wantName)
			}
			if len(gotArgs) != tt.wantArgs || gotArgs[len(gotArgs)-1] != "https://trello.com/c/Xy12Ab" {
				t.Errorf("unexpected args: %v", gotArgs)
			}
		})
	}
}

func TestOpenURL_RejectsBeforeRunning(t *testing.T) {
	called := false
	o := &Opener{goos: "linux", run: func(string, ...string) error {
		called = true
		return nil
	}}

	if err := o.OpenURL("file:///tmp/x"); err == nil {
		t.Fatal("expected an error")
	}
	if called {
		t.Error("command should not run for a rejected url")
	}
}
