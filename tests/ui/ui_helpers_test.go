package tests

import (
	"testing"

	"github.com/bobmcallan/investor-portal/tests/common"
)

// openPage starts a browser on the portal under test, skipping when no
// portal is available.
func openPage(t *testing.T, path string) *common.Page {
	t.Helper()
	if skipReason != "" {
		t.Skip(skipReason)
	}
	p := common.NewPage(portalURL, common.LoadSettings())
	t.Cleanup(p.Close)

	if err := p.Open(path); err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	return p
}

func click(t *testing.T, p *common.Page, selector string) {
	t.Helper()
	if err := p.Click(selector); err != nil {
		t.Fatalf("click %s: %v", selector, err)
	}
}

func texts(t *testing.T, p *common.Page, selector string) []string {
	t.Helper()
	got, err := p.Texts(selector)
	if err != nil {
		t.Fatal(err)
	}
	return got
}

func count(t *testing.T, p *common.Page, selector string) int {
	t.Helper()
	n, err := p.Count(selector)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func displayed(t *testing.T, p *common.Page, selector string) bool {
	t.Helper()
	shown, err := p.Displayed(selector)
	if err != nil {
		t.Fatal(err)
	}
	return shown
}

func currentURL(t *testing.T, p *common.Page) string {
	t.Helper()
	loc, err := p.URL()
	if err != nil {
		t.Fatal(err)
	}
	return loc
}

func screenshot(t *testing.T, p *common.Page, kind, name string) {
	t.Helper()
	if err := p.Screenshot(kind, name); err != nil {
		t.Logf("screenshot %s failed: %v", name, err)
	}
}
