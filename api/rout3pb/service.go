package rout3pb

import (
	"context"

	"google.golang.org/grpc"
)

// RouteServiceServer is the server API, shaped the way
// protoc-gen-go-grpc emits it: one method per RPC, streaming methods
// taking a typed server-stream instead of returning a value directly.
type RouteServiceServer interface {
	Version(context.Context, *Empty) (*VersionResponse, error)
	ListGraphs(context.Context, *Empty) (*ListGraphsResponse, error)
	ListDatasets(context.Context, *Empty) (*ListDatasetsResponse, error)

	H3ShortestPath(*H3ShortestPathRequest, RouteService_H3ShortestPathServer) error
	H3ShortestPathRoutes(*H3ShortestPathRequest, RouteService_H3ShortestPathRoutesServer) error
	H3ShortestPathCells(*H3ShortestPathRequest, RouteService_H3ShortestPathCellsServer) error
	H3ShortestPathEdges(*H3ShortestPathRequest, RouteService_H3ShortestPathEdgesServer) error

	DifferentialShortestPath(*DifferentialShortestPathRequest, RouteService_DifferentialShortestPathServer) error
	GetDifferentialShortestPath(*IdRef, RouteService_GetDifferentialShortestPathServer) error
	GetDifferentialShortestPathRoutes(*DifferentialShortestPathRoutesRequest, RouteService_GetDifferentialShortestPathRoutesServer) error

	H3CellsWithinThreshold(*H3WithinThresholdRequest, RouteService_H3CellsWithinThresholdServer) error
}

// Streaming server interfaces, one per server-streamed RPC. Each wraps
// grpc.ServerStream with a typed Send.

type RouteService_H3ShortestPathServer interface {
	Send(*ArrowIPCChunk) error
	grpc.ServerStream
}

type RouteService_H3ShortestPathRoutesServer interface {
	Send(*RouteWKB) error
	grpc.ServerStream
}

type RouteService_H3ShortestPathCellsServer interface {
	Send(*RouteH3Indexes) error
	grpc.ServerStream
}

type RouteService_H3ShortestPathEdgesServer interface {
	Send(*RouteH3Indexes) error
	grpc.ServerStream
}

type RouteService_DifferentialShortestPathServer interface {
	Send(*ArrowIPCChunk) error
	grpc.ServerStream
}

type RouteService_GetDifferentialShortestPathServer interface {
	Send(*ArrowIPCChunk) error
	grpc.ServerStream
}

type RouteService_GetDifferentialShortestPathRoutesServer interface {
	Send(*DifferentialShortestPathRoutes) error
	grpc.ServerStream
}

type RouteService_H3CellsWithinThresholdServer interface {
	Send(*ArrowIPCChunk) error
	grpc.ServerStream
}

// concrete grpc.ServerStream embedders, one per streaming method, so
// each typed Send can call the underlying stream's SendMsg.

type routeServiceH3ShortestPathServer struct{ grpc.ServerStream }

func (s *routeServiceH3ShortestPathServer) Send(m *ArrowIPCChunk) error { return s.SendMsg(m) }

type routeServiceH3ShortestPathRoutesServer struct{ grpc.ServerStream }

func (s *routeServiceH3ShortestPathRoutesServer) Send(m *RouteWKB) error { return s.SendMsg(m) }

type routeServiceH3ShortestPathCellsServer struct{ grpc.ServerStream }

func (s *routeServiceH3ShortestPathCellsServer) Send(m *RouteH3Indexes) error { return s.SendMsg(m) }

type routeServiceH3ShortestPathEdgesServer struct{ grpc.ServerStream }

func (s *routeServiceH3ShortestPathEdgesServer) Send(m *RouteH3Indexes) error { return s.SendMsg(m) }

type routeServiceDifferentialShortestPathServer struct{ grpc.ServerStream }

func (s *routeServiceDifferentialShortestPathServer) Send(m *ArrowIPCChunk) error {
	return s.SendMsg(m)
}

type routeServiceGetDifferentialShortestPathServer struct{ grpc.ServerStream }

func (s *routeServiceGetDifferentialShortestPathServer) Send(m *ArrowIPCChunk) error {
	return s.SendMsg(m)
}

type routeServiceGetDifferentialShortestPathRoutesServer struct{ grpc.ServerStream }

func (s *routeServiceGetDifferentialShortestPathRoutesServer) Send(m *DifferentialShortestPathRoutes) error {
	return s.SendMsg(m)
}

type routeServiceH3CellsWithinThresholdServer struct{ grpc.ServerStream }

func (s *routeServiceH3CellsWithinThresholdServer) Send(m *ArrowIPCChunk) error {
	return s.SendMsg(m)
}

func _RouteService_Version_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RouteServiceServer).Version(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/rout3.RouteService/Version"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RouteServiceServer).Version(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _RouteService_ListGraphs_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RouteServiceServer).ListGraphs(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/rout3.RouteService/ListGraphs"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RouteServiceServer).ListGraphs(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _RouteService_ListDatasets_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RouteServiceServer).ListDatasets(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/rout3.RouteService/ListDatasets"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RouteServiceServer).ListDatasets(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _RouteService_H3ShortestPath_Handler(srv interface{}, stream grpc.ServerStream) error {
	req := new(H3ShortestPathRequest)
	if err := stream.RecvMsg(req); err != nil {
		return err
	}
	return srv.(RouteServiceServer).H3ShortestPath(req, &routeServiceH3ShortestPathServer{stream})
}

func _RouteService_H3ShortestPathRoutes_Handler(srv interface{}, stream grpc.ServerStream) error {
	req := new(H3ShortestPathRequest)
	if err := stream.RecvMsg(req); err != nil {
		return err
	}
	return srv.(RouteServiceServer).H3ShortestPathRoutes(req, &routeServiceH3ShortestPathRoutesServer{stream})
}

func _RouteService_H3ShortestPathCells_Handler(srv interface{}, stream grpc.ServerStream) error {
	req := new(H3ShortestPathRequest)
	if err := stream.RecvMsg(req); err != nil {
		return err
	}
	return srv.(RouteServiceServer).H3ShortestPathCells(req, &routeServiceH3ShortestPathCellsServer{stream})
}

func _RouteService_H3ShortestPathEdges_Handler(srv interface{}, stream grpc.ServerStream) error {
	req := new(H3ShortestPathRequest)
	if err := stream.RecvMsg(req); err != nil {
		return err
	}
	return srv.(RouteServiceServer).H3ShortestPathEdges(req, &routeServiceH3ShortestPathEdgesServer{stream})
}

func _RouteService_DifferentialShortestPath_Handler(srv interface{}, stream grpc.ServerStream) error {
	req := new(DifferentialShortestPathRequest)
	if err := stream.RecvMsg(req); err != nil {
		return err
	}
	return srv.(RouteServiceServer).DifferentialShortestPath(req, &routeServiceDifferentialShortestPathServer{stream})
}

func _RouteService_GetDifferentialShortestPath_Handler(srv interface{}, stream grpc.ServerStream) error {
	req := new(IdRef)
	if err := stream.RecvMsg(req); err != nil {
		return err
	}
	return srv.(RouteServiceServer).GetDifferentialShortestPath(req, &routeServiceGetDifferentialShortestPathServer{stream})
}

func _RouteService_GetDifferentialShortestPathRoutes_Handler(srv interface{}, stream grpc.ServerStream) error {
	req := new(DifferentialShortestPathRoutesRequest)
	if err := stream.RecvMsg(req); err != nil {
		return err
	}
	return srv.(RouteServiceServer).GetDifferentialShortestPathRoutes(req, &routeServiceGetDifferentialShortestPathRoutesServer{stream})
}

func _RouteService_H3CellsWithinThreshold_Handler(srv interface{}, stream grpc.ServerStream) error {
	req := new(H3WithinThresholdRequest)
	if err := stream.RecvMsg(req); err != nil {
		return err
	}
	return srv.(RouteServiceServer).H3CellsWithinThreshold(req, &routeServiceH3CellsWithinThresholdServer{stream})
}

// ServiceDesc is the grpc.ServiceDesc for RouteService, wired by hand
// in place of protoc-gen-go-grpc's generated output.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: "rout3.RouteService",
	HandlerType: (*RouteServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Version", Handler: _RouteService_Version_Handler},
		{MethodName: "ListGraphs", Handler: _RouteService_ListGraphs_Handler},
		{MethodName: "ListDatasets", Handler: _RouteService_ListDatasets_Handler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "H3ShortestPath", Handler: _RouteService_H3ShortestPath_Handler, ServerStreams: true},
		{StreamName: "H3ShortestPathRoutes", Handler: _RouteService_H3ShortestPathRoutes_Handler, ServerStreams: true},
		{StreamName: "H3ShortestPathCells", Handler: _RouteService_H3ShortestPathCells_Handler, ServerStreams: true},
		{StreamName: "H3ShortestPathEdges", Handler: _RouteService_H3ShortestPathEdges_Handler, ServerStreams: true},
		{StreamName: "DifferentialShortestPath", Handler: _RouteService_DifferentialShortestPath_Handler, ServerStreams: true},
		{StreamName: "GetDifferentialShortestPath", Handler: _RouteService_GetDifferentialShortestPath_Handler, ServerStreams: true},
		{StreamName: "GetDifferentialShortestPathRoutes", Handler: _RouteService_GetDifferentialShortestPathRoutes_Handler, ServerStreams: true},
		{StreamName: "H3CellsWithinThreshold", Handler: _RouteService_H3CellsWithinThreshold_Handler, ServerStreams: true},
	},
	Metadata: "rout3.proto",
}

// RegisterRouteServiceServer registers srv on s under ServiceDesc.
func RegisterRouteServiceServer(s grpc.ServiceRegistrar, srv RouteServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
