package mcpserver

import (
	"context"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/aksharatantra/multidecode/internal/domain/docmodel"
	"github.com/aksharatantra/multidecode/internal/pipeline"
	"github.com/aksharatantra/multidecode/pkg/logger_i"
)

const Version = "1.0.0"

// Server exposes the processing pipeline over MCP stdio so that
// agent tooling can run document analysis without the HTTP API.
type Server struct {
	pipe   *pipeline.Pipeline
	server *mcp.Server
	logger *logger_i.Logger
}

func NewServer(pipe *pipeline.Pipeline) *Server {
	impl := &mcp.Implementation{
		Name:    "multidecode",
		Version: Version,
	}

	s := &Server{
		pipe:   pipe,
		server: mcp.NewServer(impl, nil),
		logger: logger_i.NewLogger("MCPServer"),
	}
	s.registerTools()
	return s
}

// Run serves over stdio until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("MCP server listening on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

type ProcessInput struct {
	Path string `json:"path" jsonschema:"absolute path of the document to process"`
}

type ProcessOutput struct {
	Result *docmodel.ProcessResult `json:"result"`
}

type DetectInput struct {
	Path string `json:"path" jsonschema:"absolute path of the file to sniff"`
}

type DetectOutput struct {
	FileType docmodel.FileType `json:"file_type"`
}

type FormatsOutput struct {
	Formats []string `json:"formats"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "process_document",
		Description: "Run the full extraction and analysis pipeline on a local document",
	}, s.handleProcess)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "detect_type",
		Description: "Detect the MIME type and extension of a local file from its content",
	}, s.handleDetect)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "supported_formats",
		Description: "List the document formats the pipeline can extract text from",
	}, s.handleFormats)
}

func (s *Server) handleProcess(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ProcessInput,
) (*mcp.CallToolResult, ProcessOutput, error) {
	result, err := s.pipe.ProcessFile(ctx, input.Path)
	if err != nil {
		return nil, ProcessOutput{}, err
	}
	return nil, ProcessOutput{Result: result}, nil
}

func (s *Server) handleDetect(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input DetectInput,
) (*mcp.CallToolResult, DetectOutput, error) {
	buf, err := os.ReadFile(input.Path)
	if err != nil {
		return nil, DetectOutput{}, err
	}
	fileType, err := pipeline.DetectFileType(buf)
	if err != nil {
		return nil, DetectOutput{}, err
	}
	return nil, DetectOutput{FileType: fileType}, nil
}

func (s *Server) handleFormats(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, FormatsOutput, error) {
	return nil, FormatsOutput{Formats: []string{
		"pdf", "docx", "odt", "rtf", "txt",
		"xlsx", "xls", "pptx",
		"jpg", "jpeg", "png", "bmp", "tiff", "webp",
	}}, nil
}
