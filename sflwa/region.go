package sflwa

// Region resolves the AWS region an SDK client should target. Use
// [LocalRegion], [PrimaryRegion] or [FixedRegion] when registering and
// retrieving clients.
type Region interface {
	resolve(env Environment) string
}

type localRegion struct{}

func (localRegion) resolve(Environment) string { return "" }

// LocalRegion targets the region the function runs in (AWS_REGION). This is
// the default for registered clients.
func LocalRegion() Region { return localRegion{} }

type primaryRegionResolver struct{}

func (primaryRegionResolver) resolve(env Environment) string { return env.primaryRegion() }

// PrimaryRegion targets the primary deployment region (SF_PRIMARY_REGION).
// Use it for reads and writes that must go through the primary region, such
// as the rules table behind a global table.
func PrimaryRegion() Region { return primaryRegionResolver{} }

type fixedRegion string

func (r fixedRegion) resolve(Environment) string { return string(r) }

// FixedRegion targets a specific region regardless of where the function
// runs.
func FixedRegion(region string) Region { return fixedRegion(region) }
