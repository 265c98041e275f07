// Package remotesink implements an optional diag.Sink that forwards
// diagnostics to a remote collector over gRPC, using a runtime-parsed
// .proto schema and dynamic messages rather than generated .pb.go stubs —
// the same technique an embedded script's grpcInvoke/protoEncode builtins
// use to call an RPC method nobody compiled bindings for ahead of time.
package remotesink

import (
	"context"
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/nxgtri/funxycheck/internal/diag"
)

// Schema is a loaded .proto file's method/message descriptors, resolved
// once per remote sink rather than per call.
type Schema struct {
	fd *desc.FileDescriptor
}

// LoadSchema parses a .proto file from disk (plus its import path) into a
// Schema, the same protoparse.Parser call the reference's grpcLoadProto
// builtin makes.
func LoadSchema(protoPath string, importPaths ...string) (*Schema, error) {
	if len(importPaths) == 0 {
		importPaths = []string{"."}
	}
	parser := protoparse.Parser{ImportPaths: importPaths}
	fds, err := parser.ParseFiles(protoPath)
	if err != nil {
		return nil, fmt.Errorf("parsing proto schema %s: %w", protoPath, err)
	}
	if len(fds) == 0 {
		return nil, fmt.Errorf("proto schema %s defined no files", protoPath)
	}
	return &Schema{fd: fds[0]}, nil
}

func (s *Schema) findMethod(fullMethodPath string) (*desc.MethodDescriptor, error) {
	for _, svc := range s.fd.GetServices() {
		for _, m := range svc.GetMethods() {
			if svc.GetFullyQualifiedName()+"/"+m.GetName() == fullMethodPath {
				return m, nil
			}
		}
	}
	return nil, fmt.Errorf("method %q not found in schema", fullMethodPath)
}

// Sink forwards every reported diag.Error to a single remote RPC method as
// a dynamic message built field-by-field from the Error. It deliberately
// ignores Trace calls — a remote collector is for diagnostics a human or CI
// system needs to see, not for the checker's own internal tracing.
type Sink struct {
	conn       *grpc.ClientConn
	schema     *Schema
	methodPath string // fully-qualified "package.Service/Method"
}

// Dial connects to target and binds reportMethodPath (e.g.
// "funxycheck.diagnostics.v1.Collector/Report") as the RPC every Report
// call invokes.
func Dial(target string, schema *Schema, reportMethodPath string) (*Sink, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", target, err)
	}
	if _, err := schema.findMethod(reportMethodPath); err != nil {
		return nil, err
	}
	return &Sink{conn: conn, schema: schema, methodPath: reportMethodPath}, nil
}

func (s *Sink) Close() error { return s.conn.Close() }

// Report builds a dynamic request message mirroring diag.Error's fields and
// invokes the bound RPC method, silently discarding (rather than
// propagating) a failed method lookup or delivery — a remote sink going
// down must never itself fail the check that's reporting through it.
func (s *Sink) Report(e *diag.Error) {
	md, err := s.schema.findMethod(s.methodPath)
	if err != nil {
		return
	}
	req := dynamic.NewMessage(md.GetInputType())
	setIfPresent(req, "code", e.Code)
	setIfPresent(req, "message", e.Message)
	setIfPresent(req, "file", e.Span.File)
	setIfPresent(req, "line", int32(e.Span.Line))
	setIfPresent(req, "col", int32(e.Span.Col))
	setIfPresent(req, "severity", int32(e.Severity))
	if len(e.Notes) > 0 {
		setIfPresent(req, "notes", e.Notes)
	}

	resp := dynamic.NewMessage(md.GetOutputType())
	methodPath := s.methodPath
	if len(methodPath) == 0 || methodPath[0] != '/' {
		methodPath = "/" + methodPath
	}
	_ = s.conn.Invoke(context.Background(), methodPath, req, resp)
}

func (s *Sink) Trace(format string, args ...any) {}

// setIfPresent sets field on msg only if the descriptor actually declares
// it with a compatible wire type, since a schema author may have dropped an
// optional field (e.g. notes) or retyped it (e.g. severity as an enum
// instead of int32) that this sink otherwise always tries to populate.
func setIfPresent(msg *dynamic.Message, field string, value any) {
	fd := msg.GetMessageDescriptor().FindFieldByName(field)
	if fd == nil || !fieldAccepts(fd, value) {
		return
	}
	_ = msg.TrySetFieldByName(field, value)
}

// fieldAccepts reports whether fd's declared wire type matches value's Go
// type closely enough for dynamic.Message to accept it directly, the same
// scalar-type dispatch the reference's object<->dynamic-message conversion
// performs before ever calling into the protoreflect API.
func fieldAccepts(fd *desc.FieldDescriptor, value any) bool {
	switch fd.GetType() {
	case descriptorpb.FieldDescriptorProto_TYPE_STRING:
		switch value.(type) {
		case string, []string:
			return true
		}
	case descriptorpb.FieldDescriptorProto_TYPE_INT32, descriptorpb.FieldDescriptorProto_TYPE_SINT32, descriptorpb.FieldDescriptorProto_TYPE_SFIXED32:
		_, ok := value.(int32)
		return ok
	case descriptorpb.FieldDescriptorProto_TYPE_ENUM:
		_, ok := value.(int32)
		return ok
	}
	return false
}

var _ diag.Sink = (*Sink)(nil)
