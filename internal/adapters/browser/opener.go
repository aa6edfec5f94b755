package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// Opener implements ports.URLOpener with the platform's default handler
type Opener struct {
	goos string
	run  func(name string, args ...string) error
}

// NewOpener creates an opener for the running platform
func NewOpener() *Opener {
	return &Opener{
		goos: runtime.GOOS,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

// OpenURL opens a card link in the default browser
func (o *Opener) OpenURL(rawURL string) error {
	if err := ValidateURL(rawURL); err != nil {
		return err
	}
	name, args, err := o.command(rawURL)
	if err != nil {
		return err
	}
	return o.run(name, args...)
}

// ValidateURL rejects anything that is not an absolute http(s) URL
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open non-http url: %s", rawURL)
	}
	if u.Host == "" {
		return fmt.Errorf("url has no host: %s", rawURL)
	}
	return nil
}

func (o *Opener) command(uri string) (string, []string, error) {
	switch o.goos {
	case "darwin":
		return "open", []string{uri}, nil
	case "linux":
		return "xdg-open", []string{uri}, nil
	case "windows":
		return "cmd", []string{"/c", "start", "", uri}, nil
	default:
		return "", nil, fmt.Errorf("unsupported operating system: %s", o.goos)
	}
}
