package index

import (
	"testing"
)

const fooStanza = `Package: foo
Version: 1.0
Architecture: arm64
Filename: pool/f/foo.deb
Size: 10
MD5sum: d41d8cd98f00b204e9800998ecf8427e
SHA256: e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855
`

func TestParse(t *testing.T) {
	packages := Parse(fooStanza)
	if len(packages) != 1 {
		t.Fatalf("expected 1 package, got %d", len(packages))
	}

	pkg, ok := packages["foo"]
	if !ok {
		t.Fatalf("package foo not parsed")
	}
	if pkg.Version != "1.0" {
		t.Fatalf("Version: got %q", pkg.Version)
	}
	if pkg.Architecture.CPU != "arm64" {
		t.Fatalf("Architecture: got %q", pkg.Architecture.CPU)
	}
	if pkg.Filename != "pool/f/foo.deb" {
		t.Fatalf("Filename: got %q", pkg.Filename)
	}
	if pkg.Size != 10 {
		t.Fatalf("Size: got %d", pkg.Size)
	}
	if pkg.MD5sum != "d41d8cd98f00b204e9800998ecf8427e" {
		t.Fatalf("MD5sum: got %q", pkg.MD5sum)
	}
}

func TestParseDropsMalformedStanza(t *testing.T) {
	// The middle stanza misses MD5sum; only it should be dropped.
	text := fooStanza + `
Package: bar
Version: 2.0
Architecture: arm64
Filename: pool/b/bar.deb
Size: 20
SHA256: e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855

Package: baz
Version: 3.0
Architecture: arm64
Filename: pool/b/baz.deb
Size: 30
MD5sum: d41d8cd98f00b204e9800998ecf8427e
SHA256: e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855
`
	packages := Parse(text)
	if len(packages) != 2 {
		t.Fatalf("expected 2 packages, got %d", len(packages))
	}
	if _, ok := packages["bar"]; ok {
		t.Fatalf("malformed stanza bar should have been dropped")
	}
	if _, ok := packages["foo"]; !ok {
		t.Fatalf("foo missing")
	}
	if _, ok := packages["baz"]; !ok {
		t.Fatalf("stanza after a malformed one should still parse")
	}
}

func TestParseBadSize(t *testing.T) {
	text := `Package: foo
Version: 1.0
Architecture: arm64
Filename: pool/f/foo.deb
Size: not-a-number
MD5sum: d41d8cd98f00b204e9800998ecf8427e
SHA256: e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855
`
	if packages := Parse(text); len(packages) != 0 {
		t.Fatalf("stanza with unparseable Size should be dropped, got %d", len(packages))
	}
}

func TestParseLastWriteWins(t *testing.T) {
	// Duplicate names keep the later stanza; the map key is name-only.
	text := fooStanza + `
Package: foo
Version: 2.0
Architecture: arm64
Filename: pool/f/foo2.deb
Size: 12
MD5sum: d41d8cd98f00b204e9800998ecf8427e
SHA256: e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855
`
	packages := Parse(text)
	if len(packages) != 1 {
		t.Fatalf("expected 1 package, got %d", len(packages))
	}
	if packages["foo"].Version != "2.0" {
		t.Fatalf("expected later stanza to win, got version %q", packages["foo"].Version)
	}
}

func TestParseContinuationLines(t *testing.T) {
	text := `Package: foo
Version: 1.0
Architecture: arm64
Filename: pool/f/foo.deb
Size: 10
MD5sum: d41d8cd98f00b204e9800998ecf8427e
SHA256: e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855
Description: a package
 with a soft-wrapped
 description
`
	packages := Parse(text)
	if len(packages) != 1 {
		t.Fatalf("expected 1 package, got %d", len(packages))
	}
	if packages["foo"].Filename != "pool/f/foo.deb" {
		t.Fatalf("Filename: got %q", packages["foo"].Filename)
	}
}

func TestFind(t *testing.T) {
	packages := Parse(fooStanza)

	pkg, ok := Find(packages, "foo", "arm64")
	if !ok {
		t.Fatalf("foo/arm64 should resolve")
	}
	if pkg.Package != "foo" {
		t.Fatalf("resolved wrong package: %q", pkg.Package)
	}

	if _, ok := Find(packages, "foo", "amd64"); ok {
		t.Fatalf("foo/amd64 should not resolve")
	}
	if _, ok := Find(packages, "missing", "arm64"); ok {
		t.Fatalf("missing package should not resolve")
	}
}
