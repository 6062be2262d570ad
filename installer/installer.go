package installer

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/akozlenkov/faptget/config"
	"github.com/akozlenkov/faptget/deb"
	"github.com/akozlenkov/faptget/download"
	"github.com/akozlenkov/faptget/index"
	"github.com/akozlenkov/faptget/storage"
)

// The NDK ships as static download links with no published checksums, so
// these are fetched directly instead of resolved through a Packages index.
var ndkURLs = []string{
	"https://dl.google.com/android/repository/android-ndk-r26b-darwin.dmg",
	"https://dl.google.com/android/repository/android-ndk-r26b-darwin.zip",
}

// Installer drives one install attempt across a priority-ordered mirror list.
type Installer struct {
	config     *config.Config
	fetcher    *index.Fetcher
	downloader *download.Downloader
	store      storage.Storage
}

func New(c *config.Config) (*Installer, error) {
	var store storage.Storage
	if c.UseS3() {
		s, err := storage.NewMinio(c.S3Endpoint, c.S3Bucket, c.S3AccessKey, c.S3SecretKey)
		if err != nil {
			return nil, err
		}
		store = s
	} else {
		store = storage.NewLocal()
	}

	return &Installer{
		config:     c,
		fetcher:    index.NewFetcher(c.Dist, c.Components),
		downloader: download.New(store),
		store:      store,
	}, nil
}

// Install tries each mirror in order and stops at the first success. Every
// per-mirror failure is logged and the next mirror is tried; only exhausting
// the whole list fails the install.
func (i *Installer) Install(ctx context.Context) error {
	if strings.HasPrefix(i.config.Package, "android-ndk") {
		return i.installNDK(ctx)
	}

	for _, mirror := range i.config.Mirrors {
		if err := i.tryMirror(ctx, mirror); err != nil {
			fmt.Printf("Failed to download package from mirror %s: %v\n", mirror, err)
			continue
		}
		return nil
	}
	return fmt.Errorf("failed to download package %s from any mirror", i.config.Package)
}

func (i *Installer) installNDK(ctx context.Context) error {
	tasks := make([]download.Task, len(ndkURLs))
	for n, url := range ndkURLs {
		tasks[n] = download.Task{URL: url, Dir: i.config.RootDir, Size: -1}
	}

	if _, err := i.downloader.Many(ctx, tasks); err != nil {
		return fmt.Errorf("failed to download NDK: %w", err)
	}
	return nil
}

func (i *Installer) tryMirror(ctx context.Context, mirror string) error {
	fmt.Printf("Downloading package information...\n")
	text, err := i.fetcher.Fetch(ctx, mirror, i.config.Architecture)
	if err != nil {
		return err
	}

	fmt.Printf("Parsing package information...\n")
	packages := index.Parse(text)
	fmt.Printf("Found %d packages\n", len(packages))

	fmt.Printf("Looking for package %s with architecture %s\n", i.config.Package, i.config.Architecture)
	pkg, ok := index.Find(packages, i.config.Package, i.config.Architecture)
	if !ok {
		return fmt.Errorf("package %s not found in repository", i.config.Package)
	}
	fmt.Printf("Found package: %s version %s\n", pkg.Package, pkg.Version)

	url := mirror + "/" + pkg.Filename
	fmt.Printf("Trying to download from: %s\n", url)
	if err := i.downloader.One(ctx, download.Task{
		URL:  url,
		Dir:  i.config.RootDir,
		MD5:  pkg.MD5sum,
		Size: int64(pkg.Size),
	}); err != nil {
		return err
	}

	i.checkControl(pkg)

	fmt.Printf("Successfully downloaded package from %s\n", url)
	return nil
}

// checkControl compares the downloaded artifact's embedded control stanza
// against the index record. The artifact already passed checksum
// verification, so a disagreement is only warned about.
func (i *Installer) checkControl(pkg *index.Package) {
	name := path.Base(pkg.Filename)
	if !strings.HasSuffix(name, ".deb") {
		return
	}

	data, err := i.store.ReadFile(path.Join(i.config.RootDir, name))
	if err != nil {
		return
	}

	cf, err := deb.ReadControl(bytes.NewReader(data))
	if err != nil {
		fmt.Printf("Warning: couldn't read control file from %s: %v\n", name, err)
		return
	}

	if cf.Package != pkg.Package || cf.Architecture.CPU != pkg.Architecture.CPU {
		fmt.Printf("Warning: control file of %s disagrees with the index record\n", name)
	}
}
