package versioning

// Set at build time with -ldflags "-X github.com/Ethernal-Tech/cip68-lifecycle/versioning.Commit=..."
var (
	Commit    string
	Branch    string
	BuildTime string
)
