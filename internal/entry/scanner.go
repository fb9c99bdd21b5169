package entry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/specialistvlad/jsentry/internal/config"
	"github.com/specialistvlad/jsentry/internal/ctxlog"
	"github.com/specialistvlad/jsentry/internal/fsutil"
	"github.com/specialistvlad/jsentry/internal/ordered"
)

// Scanner resolves the entry declarations of template trees against a fixed
// set of apps.
type Scanner struct {
	pattern        *regexp.Regexp
	apps           *ordered.Map[string]
	templatesDir   string
	templateSuffix string
	assetsDir      string
	scriptSuffix   string
	prod           bool
}

// NewScanner builds a Scanner from the settings and the resolved app paths.
func NewScanner(s config.Settings, apps *ordered.Map[string], prod bool) (*Scanner, error) {
	pattern, err := s.Pattern()
	if err != nil {
		return nil, err
	}
	return &Scanner{
		pattern:        pattern,
		apps:           apps,
		templatesDir:   s.TemplatesDir,
		templateSuffix: s.TemplateSuffix,
		assetsDir:      s.AssetsDir,
		scriptSuffix:   s.ScriptSuffix,
		prod:           prod,
	}, nil
}

// ScanApps scans the templates folder of every app in app order.
func (s *Scanner) ScanApps(ctx context.Context) (*Partial, error) {
	result := NewPartial()
	for app, appPath := range s.apps.All() {
		p, err := s.ScanDir(ctx, filepath.Join(appPath, s.templatesDir))
		if err != nil {
			return nil, err
		}
		if err := result.Merge(p); err != nil {
			return nil, err
		}
		ctxlog.FromContext(ctx).Debug("Scanned app templates.", "app", app, "entries", p.Entries.Len())
	}
	return result, nil
}

// ScanDir scans every template file below dir. A missing dir contributes
// nothing; some apps ship scripts but no templates.
func (s *Scanner) ScanDir(ctx context.Context, dir string) (*Partial, error) {
	logger := ctxlog.FromContext(ctx)

	if !fsutil.IsDir(dir) {
		logger.Debug("No templates directory, skipping.", "dir", dir)
		return NewPartial(), nil
	}

	files, err := fsutil.FindFilesBySuffix(dir, s.templateSuffix)
	if err != nil {
		return nil, fmt.Errorf("failed to walk templates in %s: %w", dir, err)
	}

	result := NewPartial()
	for _, file := range files {
		p, err := s.ScanFile(ctx, file)
		if err != nil {
			return nil, err
		}
		if err := result.Merge(p); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// ScanFile resolves every declaration in one template file.
func (s *Scanner) ScanFile(ctx context.Context, file string) (*Partial, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", file, err)
	}

	result := NewPartial()
	for decl := range Declarations(s.pattern, file, content) {
		res, err := Resolve(decl, s.apps, s.assetsDir, s.scriptSuffix)
		if err != nil {
			return nil, err
		}
		if err := result.Merge(FromResolution(res, s.scriptSuffix, s.prod)); err != nil {
			return nil, err
		}
		ctxlog.FromContext(ctx).Debug("Resolved entry.", "entry", res.Entry, "app", res.App, "template", file)
	}
	return result, nil
}
