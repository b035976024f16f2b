package utils

const (
	ProjectName        = "healthsync"
	ProjectOwner       = "joelgerard"
	PackageName        = "github.com/" + ProjectOwner + "/" + ProjectName
	ProjectRepo        = "https://" + PackageName
	ProjectDescription = "Tooling for mirroring cloud drive health exports into local backups"
)

// ProjectVersion is the version reported by the CLI. Release builds
// override it through the linker.
var ProjectVersion = "0.1.0"
