package deb

import (
	"archive/tar"
	"bytes"
	"compress/bzip2"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/akozlenkov/go-debian/control"
	"github.com/akozlenkov/go-debian/dependency"
	"github.com/blakesmith/ar"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/xi2/xz"
)

// ControlFile is the control stanza carried inside a binary package.
type ControlFile struct {
	control.Paragraph

	Package      string
	Version      string
	Architecture dependency.Arch
}

// ReadControl decodes the control stanza of a .deb stream.
func ReadControl(reader io.Reader) (*ControlFile, error) {
	raw, err := ExtractControl(reader)
	if err != nil {
		return nil, err
	}

	cf := new(ControlFile)
	if err := control.Unmarshal(cf, bytes.NewReader(raw)); err != nil {
		return nil, err
	}
	return cf, nil
}

// ExtractControl returns the raw control file from a .deb stream. The control
// member is a tar archive compressed with xz, gzip, zstd or bzip2.
func ExtractControl(reader io.Reader) ([]byte, error) {
	archiveReader := ar.NewReader(reader)

	for {
		header, err := archiveReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if !strings.HasPrefix(header.Name, "control.tar") {
			continue
		}

		controlReader, err := newControlReader(archiveReader, path.Ext(strings.Trim(header.Name, "/")))
		if err != nil {
			return nil, err
		}

		for {
			header, err := controlReader.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, err
			}

			if strings.HasSuffix(header.Name, "control") {
				var buffer bytes.Buffer
				if _, err := io.Copy(&buffer, controlReader); err != nil {
					return nil, err
				}
				return buffer.Bytes(), nil
			}
		}
	}
	return nil, errors.New("couldn't find control file in package")
}

func newControlReader(reader io.Reader, ext string) (*tar.Reader, error) {
	switch ext {
	case ".xz":
		stream, err := xz.NewReader(reader, 0)
		if err != nil {
			return nil, err
		}
		return tar.NewReader(stream), nil
	case ".gz":
		stream, err := gzip.NewReader(reader)
		if err != nil {
			return nil, err
		}
		return tar.NewReader(stream), nil
	case ".zst":
		stream, err := zstd.NewReader(reader)
		if err != nil {
			return nil, err
		}
		return tar.NewReader(stream), nil
	case ".bz2":
		return tar.NewReader(bzip2.NewReader(reader)), nil
	default:
		return nil, fmt.Errorf("compression type %s not supported", ext)
	}
}
