// ABOUTME: Build version information
// ABOUTME: Version can be overridden at link time with -ldflags "-X .../internal/version.Version=x.y.z"
package version

var (
	// Version is the release version
	Version = "dev"

	// Product is the product name reported in logs
	Product = "Resonate Play"

	// Manufacturer is reported alongside Product
	Manufacturer = "Resonate"
)

// String formats the product and version for banners
func String() string {
	return Product + " " + Version
}
