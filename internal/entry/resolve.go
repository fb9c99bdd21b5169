package entry

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/jsentry/internal/fsutil"
	"github.com/specialistvlad/jsentry/internal/ordered"
)

// Resolution is a declaration bound to its owning app and script file.
type Resolution struct {
	Entry     string
	App       string
	AssetsDir string
	Import    string
}

// OwningApp splits an entry name into its app key and the path of the script
// relative to that app's assets folder. A two-segment app key wins over a
// one-segment key.
func OwningApp(name string, apps *ordered.Map[string]) (app string, rel string, ok bool) {
	segments := strings.Split(name, "/")
	if len(segments) >= 2 {
		key := segments[0] + "/" + segments[1]
		if apps.Has(key) {
			return key, strings.Join(segments[2:], "/"), true
		}
	}
	if apps.Has(segments[0]) {
		return segments[0], strings.Join(segments[1:], "/"), true
	}
	return "", "", false
}

// Resolve binds decl to a script under the owning app's assets folder and
// checks that the script exists.
func Resolve(decl Declaration, apps *ordered.Map[string], assetsDir, scriptSuffix string) (Resolution, error) {
	app, rel, ok := OwningApp(decl.Name, apps)
	if !ok {
		return Resolution{}, &UnknownAppError{Entry: decl.Name, Template: decl.Template}
	}

	appPath, _ := apps.Get(app)
	if appPath == "" {
		return Resolution{}, fmt.Errorf("app path missing for %q", app)
	}

	assets := filepath.Join(appPath, assetsDir)
	script := filepath.Join(assets, filepath.FromSlash(rel)+scriptSuffix)
	if !fsutil.Exists(script) {
		return Resolution{}, &MissingAssetError{Entry: decl.Name, Path: script}
	}

	return Resolution{
		Entry:     decl.Name,
		App:       app,
		AssetsDir: assets,
		Import:    script,
	}, nil
}
