package targets

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/pdfjs/pdfmake/pkg/buildsys"
	"github.com/pdfjs/pdfmake/pkg/fsops"
	"github.com/pdfjs/pdfmake/pkg/manifest"
)

// SignChromium packs build/chromium into build/chromium/pdf.js.crx with the
// Chrome binary listed in the browser manifest.
func SignChromium(ctx context.Context, env *buildsys.Env, _ buildsys.Options) error {
	log := buildsys.Logger(ctx)
	chromeDir := env.BuildPath("chromium")

	if env.Config.Chrome.Key == "" {
		return buildsys.Guard("The PDFJS_CHROME_KEY must be specified.")
	}

	buildsys.Heading(ctx, "Bundling .crx extension into "+env.Rel(chromeDir)+"/")

	keyPath := env.Path(env.Config.Chrome.Key)
	if !fsops.IsFile(keyPath) {
		return buildsys.Guard("Incorrect PDFJS_CHROME_KEY path")
	}

	manifestPath := env.Path(env.Config.Chrome.Manifest)
	if !fsops.IsFile(manifestPath) {
		return buildsys.GuardHint(
			fmt.Sprintf("Browser manifest file %s does not exist.", env.Config.Chrome.Manifest),
			"Copy and adjust the example in test/resources/browser_manifests.",
		)
	}

	browsers, err := manifest.Load(manifestPath)
	if err != nil {
		return buildsys.GuardHint("Malformed browser manifest file", err.Error())
	}

	chrome, found := browsers.Find("chrome")
	if !found || chrome.Path == "" {
		return buildsys.Guard("There was no 'chrome' entry in the browser manifest")
	}

	if count := browsers.Count("chrome"); count > 1 {
		log.Warn().
			Str("path", chrome.Path).
			Msgf("The browser manifest has %d 'chrome' entries, using %s", count, chrome.Path)
	}

	executable := env.Path(manifest.ResolveExecutable(chrome.Path, env.GOOS))
	if !fsops.IsFile(executable) {
		return buildsys.Guard("Incorrect executable path to chrome")
	}

	err = env.Exec.Exec(ctx, env.Root,
		executable,
		"--no-message-box",
		"--pack-extension="+chromeDir+string(filepath.Separator),
		"--pack-extension-key="+keyPath,
	)
	if err != nil {
		return commandFailed("chrome", err)
	}

	// chrome writes the package next to the packed directory
	crxPath := filepath.Join(chromeDir, "pdf.js.crx")
	err = fsops.Move(env.BuildPath("chromium.crx"), crxPath)
	if err != nil {
		return err
	}

	log.Info().
		Str("path", crxPath).
		Msgf("Extension written to %s", env.Rel(crxPath))
	return nil
}
