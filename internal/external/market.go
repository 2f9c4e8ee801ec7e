package external

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atomicstack/cmdlib/internal/logging/events"
)

// Packages promoted by the listing row.
const (
	QuizPackage   = "com.inspiredandroid.linuxquiz"
	RemotePackage = "com.inspiredandroid.linuxremote"
)

// Referrer is the pre-encoded attribution appended to every listing URL.
const Referrer = "utm_source%3Dlinuxapp%26utm_medium%3Dbasicgroup"

// Marketplace opens app listings, trying the market:// scheme first and the
// web store second.
type Marketplace struct {
	run    runner
	lookup lookPath
	goos   string
}

// NewMarketplace returns a marketplace using the platform's URL opener.
func NewMarketplace() *Marketplace {
	return &Marketplace{run: runCommand, lookup: exec.LookPath, goos: runtime.GOOS}
}

// MarketURL is the native store link for pkg.
func MarketURL(pkg string) string {
	return "market://details?id=" + url.QueryEscape(pkg) + "&referrer=" + Referrer
}

// WebURL is the browser fallback for pkg.
func WebURL(pkg string) string {
	return "https://play.google.com/store/apps/details?id=" + url.QueryEscape(pkg) + "&referrer=" + Referrer
}

// OpenAppListing opens the listing for pkg and returns the URL that was
// handed to the opener.
func (m *Marketplace) OpenAppListing(ctx context.Context, pkg string) (string, error) {
	if m == nil {
		return "", ErrNoHandler
	}
	pkg = strings.TrimSpace(pkg)
	if pkg == "" {
		return "", fmt.Errorf("open listing: empty package")
	}
	opener, err := m.opener()
	if err != nil {
		return "", fmt.Errorf("open listing %s: %w", pkg, err)
	}
	var errs []error
	for _, target := range []string{MarketURL(pkg), WebURL(pkg)} {
		err := m.run(ctx, opener, target)
		if err == nil {
			events.Catalog.OpenListing(pkg, target)
			return target, nil
		}
		errs = append(errs, err)
	}
	return "", fmt.Errorf("open listing %s: %w", pkg, errors.Join(errs...))
}

func (m *Marketplace) opener() (string, error) {
	candidates := []string{"xdg-open", "wslview"}
	if m.goos == "darwin" {
		candidates = []string{"open"}
	}
	for _, name := range candidates {
		if _, err := m.lookup(name); err == nil {
			return name, nil
		}
	}
	return "", ErrNoHandler
}
