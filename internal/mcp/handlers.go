package mcp

import (
	"context"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/worldbox/worldbox/internal/orgsim"
	"github.com/worldbox/worldbox/internal/sandbox"
	"github.com/worldbox/worldbox/internal/schema"
	"github.com/worldbox/worldbox/internal/snapshot"
	"github.com/worldbox/worldbox/internal/store"
	"github.com/worldbox/worldbox/internal/world"

	_ "github.com/worldbox/worldbox/internal/apps"
)

// registerTools registers all worldbox MCP tools with the server.
func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "world_execute",
		Description: "Run a program in the sandbox; output and errors are captured, never raised",
	}, s.handleExecute)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "world_read_table",
		Description: "Read the visible rows of a world table",
	}, s.handleReadTable)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "world_write_table",
		Description: "Insert rows into a world table, validated against its schema",
	}, s.handleWriteTable)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "world_snapshot",
		Description: "Capture the full world state as a JSON snapshot",
	}, s.handleSnapshot)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "world_seed",
		Description: "Populate the world with a simulated company directory",
	}, s.handleSeed)
}

func (s *Server) handleExecute(ctx context.Context, req *sdk.CallToolRequest, args ExecuteInput) (_ *sdk.CallToolResult, _ ExecuteOutput, retErr error) {
	start := time.Now()
	defer func() { s.traceTool("world_execute", start, retErr) }()

	restore := world.Scoped(s.world)
	defer restore()

	var msg sandbox.Message
	if args.Imports != "" {
		var err error
		msg, err = world.ExecuteProgram(args.Program, args.Imports)
		if err != nil {
			return nil, ExecuteOutput{}, err
		}
	} else {
		msg = world.Execute(args.Program)
	}

	s.trace.Log(map[string]any{
		"event":     "execute",
		"program":   args.Program,
		"content":   msg.Content,
		"exception": msg.Exception,
	})
	return nil, ExecuteOutput{
		Content:   msg.Content,
		Exception: msg.Exception,
		OK:        msg.OK(),
	}, nil
}

func (s *Server) handleReadTable(ctx context.Context, req *sdk.CallToolRequest, args ReadTableInput) (_ *sdk.CallToolResult, _ ReadTableOutput, retErr error) {
	start := time.Now()
	defer func() { s.traceTool("world_read_table", start, retErr) }()

	ns, err := namespaceFor(args.Namespace)
	if err != nil {
		return nil, ReadTableOutput{}, err
	}
	rows := s.world.ReadEncoded(ns)
	out := make([]map[string]any, len(rows))
	for i, row := range rows {
		out[i] = row
	}
	return nil, ReadTableOutput{Rows: out, Count: len(out)}, nil
}

func (s *Server) handleWriteTable(ctx context.Context, req *sdk.CallToolRequest, args WriteTableInput) (_ *sdk.CallToolResult, _ WriteTableOutput, retErr error) {
	start := time.Now()
	defer func() { s.traceTool("world_write_table", start, retErr) }()

	ns, err := namespaceFor(args.Namespace)
	if err != nil {
		return nil, WriteTableOutput{}, err
	}
	rows := make([]store.Row, len(args.Rows))
	for i, row := range args.Rows {
		rows[i] = store.Row(row)
	}
	if err := s.world.AddEncoded(ns, rows); err != nil {
		return nil, WriteTableOutput{}, err
	}
	return nil, WriteTableOutput{Inserted: len(rows)}, nil
}

func (s *Server) handleSnapshot(ctx context.Context, req *sdk.CallToolRequest, args SnapshotInput) (_ *sdk.CallToolResult, _ SnapshotOutput, retErr error) {
	start := time.Now()
	defer func() { s.traceTool("world_snapshot", start, retErr) }()

	snap := s.world.Snapshot()
	if args.Path != "" {
		if err := snapshot.Save(args.Path, snap); err != nil {
			return nil, SnapshotOutput{}, err
		}
		return nil, SnapshotOutput{Path: args.Path}, nil
	}
	data, err := snapshot.Encode(snap)
	if err != nil {
		return nil, SnapshotOutput{}, err
	}
	return nil, SnapshotOutput{Snapshot: string(data)}, nil
}

func (s *Server) handleSeed(ctx context.Context, req *sdk.CallToolRequest, args SeedInput) (_ *sdk.CallToolResult, _ SeedOutput, retErr error) {
	start := time.Now()
	defer func() { s.traceTool("world_seed", start, retErr) }()

	team := args.UserTeam
	if team == "" {
		team = orgsim.TeamEngineering
	}
	role := args.UserRole
	if role == "" {
		role = orgsim.RoleTeamMember
	}

	restore := world.Scoped(s.world)
	defer restore()

	builder := orgsim.NewBuilder(args.Seed)
	org, err := builder.BuildOrg(args.Names, args.UserName, team, role)
	if err != nil {
		return nil, SeedOutput{}, err
	}
	if err := builder.WriteToDatabase(org); err != nil {
		return nil, SeedOutput{}, err
	}
	return nil, SeedOutput{Employees: org.Size()}, nil
}

// traceTool records one tool invocation in the trace log.
func (s *Server) traceTool(tool string, start time.Time, err error) {
	status := "success"
	errMsg := ""
	if err != nil {
		status = "error"
		errMsg = err.Error()
	}
	s.trace.Log(map[string]any{
		"event":       "tool",
		"tool":        tool,
		"duration_ms": time.Since(start).Milliseconds(),
		"status":      status,
		"error":       errMsg,
	})
}

func namespaceFor(name string) (schema.Namespace, error) {
	for _, ns := range schema.All() {
		if string(ns) == name {
			return ns, nil
		}
	}
	return "", &store.NotFoundError{Namespace: schema.Namespace(name), Detail: "unknown namespace"}
}
