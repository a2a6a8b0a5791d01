// Package codegen is the code-generation backend. It lowers an AST into a
// small host-neutral IR and renders that as Go or Python source.
package codegen

import "gobf/pkg/compiler"

// Generate lowers root with cfg and renders it for cfg.Language.
func Generate(root compiler.Node, cfg TargetConfig) (string, error) {
	mod, err := Lower(root, cfg)
	if err != nil {
		return "", err
	}
	return Render(mod)
}

// Render picks the renderer for mod.Config.Language.
func Render(mod *Module) (string, error) {
	lang, err := normalizeLanguage(mod.Config.Language)
	if err != nil {
		return "", err
	}
	if lang == LanguagePython {
		return RenderPython(mod)
	}
	return RenderGo(mod)
}
