package testutil

// WithChainFixture adds a linear dependency chain:
//
//	app -> lib -> core
//
// Every bundle is remote so tests can register without a publisher
// filesystem.
func (b *Builder) WithChainFixture() *Builder {
	return b.
		WithBundle("core", Remote(),
			BaseURL("https://cdn.example.com/core"),
			Scripts("core.js")).
		WithBundle("lib", Remote(),
			Depends("core"),
			BaseURL("https://cdn.example.com/lib"),
			Scripts("lib.js")).
		WithBundle("app", Remote(),
			Depends("lib"),
			BaseURL("https://cdn.example.com/app"),
			Scripts("app.js"))
}

// WithDiamondFixture adds a diamond-shaped graph:
//
//	app
//	├── left  ── base
//	└── right ── base
func (b *Builder) WithDiamondFixture() *Builder {
	return b.
		WithBundle("base", Remote(),
			BaseURL("https://cdn.example.com/base"),
			Scripts("base.js")).
		WithBundle("left", Remote(),
			Depends("base"),
			BaseURL("https://cdn.example.com/left"),
			Scripts("left.js")).
		WithBundle("right", Remote(),
			Depends("base"),
			BaseURL("https://cdn.example.com/right"),
			Scripts("right.js")).
		WithBundle("app", Remote(),
			Depends("left", "right"),
			BaseURL("https://cdn.example.com/app"),
			Scripts("app.js"))
}

// WithWebAppFixture adds a typical web application setup: a local app bundle
// with a publishable source tree depending on a remote framework bundle.
func (b *Builder) WithWebAppFixture() *Builder {
	return b.
		WithSourceDir("/srv/app/assets", "js/app.js", "css/app.css").
		WithBundle("jquery", Remote(),
			BaseURL("https://code.jquery.com"),
			Scripts("jquery.min.js")).
		WithBundle("app",
			Depends("jquery"),
			SourcePath("/srv/app/assets"),
			Scripts("js/app.js"),
			Styles("css/app.css"))
}
