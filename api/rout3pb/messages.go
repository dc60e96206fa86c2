// Package rout3pb holds the wire message and service types for the
// routing RPC surface. These are hand-authored in the shape
// protoc-gen-go/protoc-gen-go-grpc would produce (plain struct fields,
// a ServiceDesc, streaming server interfaces) since no .proto toolchain
// runs in this repository; a real deployment would regenerate this
// package from a checked-in .proto file instead.
package rout3pb

// Empty is the request message for RPCs that take no arguments.
type Empty struct{}

// VersionResponse reports the running build.
type VersionResponse struct {
	Version   string
	BuildInfo string
}

// GraphInfo describes one graph known to the server's cache index.
type GraphInfo struct {
	Name       string
	Resolution int32
}

// ListGraphsResponse enumerates the graphs the server can load.
type ListGraphsResponse struct {
	Graphs []GraphInfo
}

// ListDatasetsResponse enumerates the configured dataset names.
type ListDatasetsResponse struct {
	Datasets []string
}

// H3ShortestPathRequest is the request for all four shortest-path RPC
// variants (tabular, WKB routes, cell sequences, edge sequences).
type H3ShortestPathRequest struct {
	GraphName   string
	RoutingMode string

	Origins      []uint64
	Destinations []uint64

	// NumDestinationsToReach is k_dest; 0 means unlimited.
	NumDestinationsToReach int32
	// NumGapCellsToGraph bounds snapping ring expansion.
	NumGapCellsToGraph int32

	// Smoothen requests Chaikin corner-cutting on route geometry before
	// WKB encoding. Ignored by non-geometry variants.
	Smoothen bool
}

// ArrowIPCChunk is one chunk of a streamed tabular response. ObjectID
// is set only on the terminal chunk of a stream that carries a persisted
// result: DifferentialShortestPath and GetDifferentialShortestPath.
type ArrowIPCChunk struct {
	Data     []byte
	ObjectID string
}

// RouteWKB is one resolved route with its geometry as WGS84 WKB.
type RouteWKB struct {
	Origin         uint64
	Destination    uint64
	DurationSecs   float64
	LengthM        float64
	EdgePreference float64
	WKB            []byte
}

// RouteH3Indexes is one resolved route as an ordered cell (or directed
// edge) sequence, reused for both the Cells and Edges RPC variants.
type RouteH3Indexes struct {
	Origin         uint64
	Destination    uint64
	DurationSecs   float64
	LengthM        float64
	EdgePreference float64
	H3Indexes      []uint64
}

// DifferentialShortestPathRequest requests a baseline-vs-disturbed
// routing comparison around a disturbance geometry.
type DifferentialShortestPathRequest struct {
	GraphName   string
	RoutingMode string

	DisturbanceWKB []byte
	RadiusMeters   float64

	Destinations   []uint64
	RefDatasetName string

	NumDestinationsToReach int32
	DownsampledPrerouting  bool
}

// IdRef references a previously persisted result by its generated
// identifier.
type IdRef struct {
	ID string
}

// DifferentialShortestPathRoutesRequest asks for the retained
// per-origin route pairs of a persisted differential result.
type DifferentialShortestPathRoutesRequest struct {
	ID      string
	Origins []uint64
}

// DifferentialShortestPathRoutes carries one origin's retained route
// set in both scenarios.
type DifferentialShortestPathRoutes struct {
	Origin                uint64
	RoutesWithout         []RouteH3Indexes
	RoutesWithDisturbance []RouteH3Indexes
}

// H3WithinThresholdRequest requests every cell reachable from any
// origin within a duration threshold.
type H3WithinThresholdRequest struct {
	GraphName                   string
	RoutingMode                 string
	Origins                     []uint64
	TravelDurationSecsThreshold float64
}
