// Package ws streams district generation to rendering collaborators over a
// WebSocket. The collaborator sends GENERATE requests and receives one SPAWNS
// message per block followed by a DONE with the district digest; what it does
// with unknown component names is its own concern.
package ws

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"blockforge.dev/internal/gen/blocks"
	"blockforge.dev/internal/gen/catalogs"
	"blockforge.dev/internal/gen/district"
	"blockforge.dev/internal/protocol"
)

const (
	writeTimeout = 5 * time.Second
	readTimeout  = 120 * time.Second
)

type Server struct {
	asm  *district.Assembler
	cats *catalogs.Catalogs
	log  *log.Logger

	upgrader websocket.Upgrader
}

func NewServer(asm *district.Assembler, cats *catalogs.Catalogs, logger *log.Logger) *Server {
	return &Server{
		asm:  asm,
		cats: cats,
		log:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		if err := s.write(conn, CatalogMsg(s.cats)); err != nil {
			return
		}

		for {
			_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil {
				_ = s.writeError(conn, protocol.ErrProtoBadRequest, "not a protocol message")
				continue
			}
			if base.Type != protocol.TypeGenerate {
				_ = s.writeError(conn, protocol.ErrProtoBadRequest, fmt.Sprintf("unexpected type %q", base.Type))
				continue
			}
			var gen protocol.GenerateMsg
			if err := json.Unmarshal(msg, &gen); err != nil {
				_ = s.writeError(conn, protocol.ErrProtoBadRequest, "malformed GENERATE")
				continue
			}
			if err := s.handleGenerate(conn, gen); err != nil {
				return
			}
		}
	}
}

func (s *Server) handleGenerate(conn *websocket.Conn, gen protocol.GenerateMsg) error {
	if gen.DistrictID == "" {
		return s.writeError(conn, protocol.ErrBadRequest, "missing district_id")
	}
	d, err := s.asm.Assemble(district.Config{
		ID:      gen.DistrictID,
		Seed:    gen.Seed,
		Width:   gen.Width,
		Depth:   gen.Depth,
		Faction: blocks.Faction(gen.Faction),
	})
	if err != nil {
		return s.writeError(conn, protocol.ErrBadRequest, err.Error())
	}
	s.log.Printf("ws generate district=%s seed=%d size=%dx%d blocks=%d spawns=%d",
		d.ID, d.Seed, d.Width, d.Depth, len(d.Blocks), len(d.Spawns))

	for _, msg := range SpawnBatches(d) {
		if err := s.write(conn, msg); err != nil {
			return err
		}
	}
	return s.write(conn, protocol.DoneMsg{
		Type:       protocol.TypeDone,
		DistrictID: d.ID,
		Blocks:     len(d.Blocks),
		Spawns:     len(d.Spawns),
		Digest:     d.Digest,
	})
}

func (s *Server) write(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, b)
}

func (s *Server) writeError(conn *websocket.Conn, code, msg string) error {
	return s.write(conn, protocol.ErrorMsg{Type: protocol.TypeError, Code: code, Message: msg})
}

// CatalogMsg builds the CATALOG message for the loaded catalogs.
func CatalogMsg(cats *catalogs.Catalogs) protocol.CatalogMsg {
	msg := protocol.CatalogMsg{
		Type:            protocol.TypeCatalog,
		ProtocolVersion: protocol.Version,
		BlocksDigest:    cats.Blocks.Digest,
		ContentDigest:   cats.Content.Digest,
		BlockTypes:      append([]string(nil), cats.Blocks.Order...),
	}
	seen := map[blocks.Category]bool{}
	for _, id := range cats.Blocks.Order {
		cat := cats.Blocks.Defs[id].Category
		if !seen[cat] {
			seen[cat] = true
			msg.Categories = append(msg.Categories, string(cat))
		}
	}
	return msg
}

// SpawnBatches splits a district's flat spawn list back into per-block
// messages using the assembler's per-block counts. Spawn order is preserved.
func SpawnBatches(d *district.District) []protocol.SpawnsMsg {
	out := make([]protocol.SpawnsMsg, 0, len(d.Blocks))
	rest := d.Spawns
	for i, in := range d.Blocks {
		n := d.SpawnCounts[i]
		batch := protocol.SpawnsMsg{
			Type:       protocol.TypeSpawns,
			DistrictID: d.ID,
			BlockID:    in.ID,
			BlockType:  in.TypeID,
		}
		for _, sp := range rest[:n] {
			batch.Spawns = append(batch.Spawns, protocol.NewSpawnV1(sp))
		}
		rest = rest[n:]
		out = append(out, batch)
	}
	return out
}
