package scaffold

import (
	"os"
	"path"
)

// Relative paths of the files the generator maintains after init.
const (
	ManifestPath    = "package.json"
	ModelsDir       = "models"
	ModelIndexPath  = "models/index.js"
	RouteGroupAdmin = "admin"
	RouteGroupFront = "front"
)

// SeedModels are the models every new project starts with. The auth
// strategies in config/passport.js depend on them.
var SeedModels = []string{"Admin", "User"}

// ProjectFile is a fixed file rendered once at init.
type ProjectFile struct {
	RelPath  string // slash-separated, relative to the project root
	Template Name
	Mode     os.FileMode
}

// ProjectFiles returns the fixed files of a new project, in write order.
// The index files and seed models are produced separately.
func ProjectFiles() []ProjectFile {
	return []ProjectFile{
		{RelPath: "bin/www", Template: WWW, Mode: 0755},
		{RelPath: "config/index.js", Template: Config, Mode: 0644},
		{RelPath: "config/passport.js", Template: Passport, Mode: 0644},
		{RelPath: "helpers/index.js", Template: Helpers, Mode: 0644},
		{RelPath: "helpers/AppError.js", Template: AppError, Mode: 0644},
		{RelPath: "middlewares/index.js", Template: Middlewares, Mode: 0644},
		{RelPath: "routes/index.js", Template: MainRouter, Mode: 0644},
		{RelPath: ".env", Template: Env, Mode: 0644},
		{RelPath: ".gitignore", Template: Gitignore, Mode: 0644},
		{RelPath: "app.js", Template: Express, Mode: 0644},
		{RelPath: ManifestPath, Template: Package, Mode: 0644},
	}
}

// ModelPath returns the relative path of a model's schema file.
func ModelPath(singular string) string {
	return path.Join(ModelsDir, singular+".js")
}

// RoutePath returns the relative path of a model's router in group.
func RoutePath(group, plural string) string {
	return path.Join("routes", group, plural+".js")
}

// RouteGroups lists the route groups every model is mounted in.
func RouteGroups() []string {
	return []string{RouteGroupAdmin, RouteGroupFront}
}

// RouteIndexPath returns the relative path of a route group's mount list.
func RouteIndexPath(group string) string {
	return path.Join("routes", group, "index.js")
}
