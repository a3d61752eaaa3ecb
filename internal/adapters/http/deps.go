package http

import (
	natsadapter "github.com/codedsleep/mapd/internal/adapters/nats"
	"github.com/codedsleep/mapd/internal/adapters/valkey"
	"github.com/codedsleep/mapd/internal/bridge"
)

// Dependencies holds everything the HTTP edge needs. NATS and Cache are nil
// when the corresponding mirror/cache is disabled.
type Dependencies struct {
	Loop     *bridge.Loop
	Renderer *bridge.Renderer
	NATS     *natsadapter.Publisher
	Cache    *valkey.Cache
}
