package index

import (
	"bytes"
	"strings"

	"github.com/akozlenkov/go-debian/control"
	"github.com/akozlenkov/go-debian/dependency"
)

// Package is one parsed record from a Packages index.
type Package struct {
	control.Paragraph

	Package      string
	Version      string
	Architecture dependency.Arch
	Filename     string
	Size         int
	MD5sum       string
	SHA256       string
}

var requiredFields = []string{
	"Package", "Version", "Architecture", "Filename", "Size", "MD5sum", "SHA256",
}

// Parse turns decompressed Packages text into a map keyed by package name.
// Stanzas are separated by blank lines; a stanza missing any required field,
// or one go-debian cannot decode, is dropped and parsing continues. When two
// stanzas share a name the later one wins: the key is name-only while one
// name may legitimately appear once per architecture, and callers filter by
// architecture afterwards.
func Parse(text string) map[string]*Package {
	packages := make(map[string]*Package)

	var stanza []string
	flush := func() {
		if len(stanza) == 0 {
			return
		}
		if pkg := parseStanza(strings.Join(stanza, "\n") + "\n"); pkg != nil {
			packages[pkg.Package] = pkg
		}
		stanza = stanza[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		stanza = append(stanza, line)
	}
	flush()

	return packages
}

func parseStanza(text string) *Package {
	pkg := new(Package)
	if err := control.Unmarshal(pkg, bytes.NewReader([]byte(text))); err != nil {
		return nil
	}

	for _, field := range requiredFields {
		if _, ok := pkg.Values[field]; !ok {
			return nil
		}
	}

	if pkg.Package == "" || pkg.Size < 0 {
		return nil
	}

	return pkg
}

// Find looks up a package by name; the record only matches if it was built
// for the requested architecture.
func Find(packages map[string]*Package, name, arch string) (*Package, bool) {
	pkg, ok := packages[name]
	if !ok || pkg.Architecture.CPU != arch {
		return nil, false
	}
	return pkg, true
}
