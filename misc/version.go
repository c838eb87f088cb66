// Package misc keeps build time information.
package misc

const appName = "fontpack"

// set by linker flags
var (
	version = "dev"
	gitHash = "unknown"
)

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}

func GetAppName() string {
	return appName
}
