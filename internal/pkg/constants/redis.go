package constants

// Redis key formats
const (
	// Driver registry
	KeyDriverGeo        = "drivers:geo"        // GeoHash set of online unassigned drivers
	KeyAvailableDrivers = "drivers:available"  // Set of available driver IDs
	KeyDriverLocation   = "driver:location:%s" // Format: driver:location:{driver_id}

	// Live tracking
	KeyBookingLocation = "booking:location:%s" // Format: booking:location:{booking_id}
)

// Redis hash fields
const (
	FieldLatitude  = "lat"
	FieldLongitude = "lng"
	FieldGeohash   = "geohash"
	FieldTimestamp = "ts"
	FieldDriverID  = "driver_id"
)

// GeohashPrecision is the cell size used for cached positions, 7 characters
// is roughly a 150m x 150m cell.
const GeohashPrecision uint = 7
