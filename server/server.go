// Package server exposes the assembler and machine over a JSON HTTP
// API: assemble a program, run it and inspect the final state, fetch
// a previously assembled binary, or load a canned example.
package server

import (
	"encoding/hex"
	"net"
	"strings"

	"github.com/gofiber/fiber/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"lukechampine.com/blake3"

	"github.com/ezrec/uvm/asm"
	"github.com/ezrec/uvm/dump"
	"github.com/ezrec/uvm/vm"
)

// binaryCacheSize bounds the number of assembled binaries retained
// for /api/binary downloads.
const binaryCacheSize = 128

type Server struct {
	log   *zap.Logger
	app   *fiber.App
	cache *lru.Cache[string, []byte]
}

func New(log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	cache, err := lru.New[string, []byte](binaryCacheSize)
	if err != nil {
		panic(err)
	}

	s := &Server{log: log, cache: cache}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	api := app.Group("/api")
	api.Post("/assemble", s.assemble)
	api.Post("/run", s.run)
	api.Get("/binary/:sum", s.binary)
	api.Get("/example/:name", s.example)

	s.app = app
	return s
}

// App exposes the underlying fiber application, for testing.
func (s *Server) App() *fiber.App {
	return s.app
}

// Serve accepts connections on l until it is closed.
func (s *Server) Serve(l net.Listener) error {
	s.log.Info("serving", zap.String("addr", l.Addr().String()))
	return s.app.Listener(l)
}

// Listen binds addr and serves until shutdown.
func (s *Server) Listen(addr string) error {
	s.log.Info("serving", zap.String("addr", addr))
	return s.app.Listen(addr)
}

type assembleRequest struct {
	Program string `json:"program"`
}

type runRequest struct {
	Program       string `json:"program"`
	MemorySize    int    `json:"memory_size"`
	RegisterCount int    `json:"register_count"`
	DumpRange     string `json:"dump_range"`
}

func (s *Server) assemble(c *fiber.Ctx) error {
	var req assembleRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, err)
	}

	bin, err := asm.Assemble(strings.NewReader(req.Program))
	if err != nil {
		return fail(c, fiber.StatusUnprocessableEntity, err)
	}

	sum := blake3.Sum256([]byte(req.Program))
	key := hex.EncodeToString(sum[:])
	s.cache.Add(key, bin)

	s.log.Info("assembled",
		zap.Int("bytes", len(bin)),
		zap.String("sum", key))

	return c.JSON(fiber.Map{
		"success":     true,
		"binary_size": len(bin),
		"binary_hex":  hex.EncodeToString(bin),
		"sum":         key,
	})
}

func (s *Server) run(c *fiber.Ctx) error {
	req := runRequest{
		MemorySize:    vm.MEMORY_SIZE,
		RegisterCount: vm.REGISTER_COUNT,
		DumpRange:     "100-220",
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, err)
	}

	start, end, err := dump.ParseRange(req.DumpRange)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err)
	}

	bin, err := asm.Assemble(strings.NewReader(req.Program))
	if err != nil {
		return fail(c, fiber.StatusUnprocessableEntity, err)
	}

	m, err := vm.Execute(bin, req.MemorySize, req.RegisterCount)
	if err != nil {
		return fail(c, fiber.StatusUnprocessableEntity, err)
	}

	doc, err := dump.New(m, start, end)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err)
	}

	s.log.Info("executed",
		zap.Int("bytes", len(bin)),
		zap.Int("pc", m.Pc))

	return c.JSON(fiber.Map{
		"success":         true,
		"binary_size":     len(bin),
		"binary_hex":      hex.EncodeToString(bin),
		"registers":       m.Register,
		"program_counter": m.Pc,
		"mem_dump":        doc.Cells,
	})
}

// binary serves a previously assembled program as a download.
func (s *Server) binary(c *fiber.Ctx) error {
	bin, ok := s.cache.Get(c.Params("sum"))
	if !ok {
		return fail(c, fiber.StatusNotFound,
			fiber.NewError(fiber.StatusNotFound, "binary not found"))
	}

	c.Set(fiber.HeaderContentType, "application/octet-stream")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="program.bin"`)
	return c.Send(bin)
}

func (s *Server) example(c *fiber.Ctx) error {
	name := c.Params("name")
	program, ok := examples[name]
	if !ok {
		return fail(c, fiber.StatusNotFound,
			fiber.NewError(fiber.StatusNotFound, "example not found"))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"name":    name,
		"program": program,
	})
}

func fail(c *fiber.Ctx, status int, err error) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}
