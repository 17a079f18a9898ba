// Package publish drives one batch run: for every loaded registry it rewrites
// the wiki page's Interactive Map and Land Ownership sections and uploads any
// image whose content changed.
package publish

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"civmcbot/internal/chart"
	"civmcbot/internal/publish/archive"
	"civmcbot/internal/publish/runlog"
	"civmcbot/internal/registry"
	"civmcbot/internal/wikitext"
)

// Site is the wiki surface the publisher needs.
type Site interface {
	PageText(ctx context.Context, title string) (string, error)
	EditPage(ctx context.Context, title, text, summary string) error
	ImageSHA1(ctx context.Context, filename string) (sha1 string, exists bool, err error)
	Upload(ctx context.Context, filename, localPath, comment string, ignoreWarnings bool) error
}

type Publisher struct {
	Site       Site
	Logger     *log.Logger
	PageSuffix string

	// Optional: publish ledger and revision archive.
	RunLog  *runlog.Log
	Archive *archive.Writer
	RunID   string

	// DryRun renders everything and fetches pages, but neither uploads nor
	// edits. PreviewDir, when set, receives the would-be page text.
	DryRun     bool
	PreviewDir string
}

// Stats summarize one run.
type Stats struct {
	Registries int
	Edits      int
	Uploads    int
	Failed     int
}

// PublishAll processes registries one at a time. A failing registry is logged
// and counted; the rest still publish.
func (p *Publisher) PublishAll(ctx context.Context, registries []*registry.Registry) Stats {
	var stats Stats
	for _, r := range registries {
		stats.Registries++
		if err := p.publishRegistry(ctx, r, &stats); err != nil {
			p.Logger.Printf("publish %s: %v", r.File.RegistryName(), err)
			stats.Failed++
		}
	}
	return stats
}

func (p *Publisher) publishRegistry(ctx context.Context, r *registry.Registry, stats *Stats) error {
	name := r.File.RegistryName()
	title := wikitext.TitleCase(name) + p.PageSuffix
	p.Logger.Printf("updating %s page data", name)

	text, err := p.Site.PageText(ctx, title)
	if err != nil {
		return fmt.Errorf("fetch page %s: %w", title, err)
	}

	page := wikitext.ParsePage(text)
	var changes []string
	for _, section := range page.Sections {
		if section.Title == "" {
			continue
		}
		if strings.Contains(section.Title, "Interactive Map") {
			if err := p.updateInteractiveMap(ctx, r, section, stats); err != nil {
				return err
			}
			changes = append(changes, "Updated interactive map")
		}
		if strings.Contains(section.Title, "Land Ownership") {
			if err := p.updateLandOwnership(ctx, r, section, stats); err != nil {
				return err
			}
			changes = append(changes, "Updated land ownership table")
		}
	}
	if len(changes) == 0 {
		p.Logger.Printf("page %s has no managed sections, nothing to do", title)
		return nil
	}

	newText := page.String()
	summary := strings.Join(changes, ", ")

	if p.PreviewDir != "" {
		if err := p.writePreview(name, newText); err != nil {
			return err
		}
	}
	if p.DryRun {
		p.Logger.Printf("dry run: would edit %s (%s)", title, summary)
		return nil
	}
	if err := p.Site.EditPage(ctx, title, newText, summary); err != nil {
		return err
	}
	stats.Edits++
	now := time.Now()
	if p.RunLog != nil {
		if err := p.RunLog.RecordEdit(title, p.RunID, summary, now); err != nil {
			p.Logger.Printf("runlog edit record: %v", err)
		}
	}
	if p.Archive != nil {
		err := p.Archive.Write(archive.Record{
			RunID:   p.RunID,
			Page:    title,
			Summary: summary,
			Text:    newText,
			Time:    now.UTC().Format(time.RFC3339),
		})
		if err != nil {
			p.Logger.Printf("archive write: %v", err)
		}
	}
	return nil
}

func (p *Publisher) updateInteractiveMap(ctx context.Context, r *registry.Registry, section *wikitext.Section, stats *Stats) error {
	if err := p.uploadImageIfChanged(ctx, r.File.ImageMapName(), r.File.ImageFile, stats); err != nil {
		return err
	}
	section.Content = wikitext.ImageMap(r) + "\n"
	return nil
}

func (p *Publisher) updateLandOwnership(ctx context.Context, r *registry.Registry, section *wikitext.Section, stats *Stats) error {
	ds := wikitext.ZoningDataset(r)
	chartPath, err := chart.RenderPie(ds, r.File.Path)
	if err != nil {
		return fmt.Errorf("render zoning chart: %w", err)
	}
	if err := p.uploadImageIfChanged(ctx, ds.FileName, chartPath, stats); err != nil {
		return err
	}
	thumb := fmt.Sprintf("[[File:%s|thumb|Land usage in %s by Zoning type|400x400px]]",
		ds.FileName, wikitext.TitleCase(r.File.RegistryName()))
	section.Content = thumb + "\n" + wikitext.OwnershipTable(r) + "\n"
	return nil
}

// uploadImageIfChanged uploads only when the wiki has no such file or its
// content hash differs from the local file's.
func (p *Publisher) uploadImageIfChanged(ctx context.Context, imageName, localPath string, stats *Stats) error {
	localSHA, err := fileSHA1Hex(localPath)
	if err != nil {
		return err
	}

	if p.RunLog != nil {
		if sha, ok, err := p.RunLog.LastImageSHA1(imageName); err == nil && ok && sha == localSHA {
			p.Logger.Printf("%q already uploaded with this content, skipping", imageName)
			return nil
		}
	}
	if p.DryRun {
		p.Logger.Printf("dry run: would check and maybe upload %q", imageName)
		return nil
	}

	remoteSHA, exists, err := p.Site.ImageSHA1(ctx, imageName)
	if err != nil {
		return fmt.Errorf("image info %q: %w", imageName, err)
	}
	switch {
	case !exists:
		p.Logger.Printf("uploading new image %q", imageName)
		if err := p.Site.Upload(ctx, imageName, localPath, "Initial upload", false); err != nil {
			return err
		}
	case remoteSHA == localSHA:
		p.Logger.Printf("%q is identical to the latest version, skipping upload", imageName)
		p.recordUpload(imageName, localSHA)
		return nil
	default:
		p.Logger.Printf("%q differs, uploading new version", imageName)
		if err := p.Site.Upload(ctx, imageName, localPath, "Updated image", true); err != nil {
			return err
		}
	}
	stats.Uploads++
	p.recordUpload(imageName, localSHA)
	return nil
}

func (p *Publisher) recordUpload(imageName, sha string) {
	if p.RunLog == nil {
		return
	}
	if err := p.RunLog.RecordUpload(imageName, sha, p.RunID, time.Now()); err != nil {
		p.Logger.Printf("runlog upload record: %v", err)
	}
}

func (p *Publisher) writePreview(name, text string) error {
	if err := os.MkdirAll(p.PreviewDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(p.PreviewDir, name+".wiki"), []byte(text), 0o644)
}

func fileSHA1Hex(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
