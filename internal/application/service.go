// Package application holds the transport-independent operation surface of
// the engine: one Service method per operation, wired at bootstrap
// to concrete adapters through the ports interfaces.
package application

import (
	"time"

	"github.com/novascore/credit-engine/internal/ports"
)

// Service implements every credit-engine operation. It holds no transport
// concerns; adapters/http is a thin translation layer in front of it.
type Service struct {
	cfg Config

	identity   ports.IdentityStore
	consents   ports.ConsentRepository
	fiSessions ports.FISessionStore

	sealer      ports.AEADSealer
	keyWrapper  ports.KeyWrapper
	tokenSigner ports.TokenSigner
	jwsSigner   ports.DetachedJWSSigner

	http            ports.Http
	sms             ports.SmsSender
	platformFetcher ports.PlatformFetcher

	auditLog    *auditRing
	socialStore *socialRecordStore
	nowFn       func() time.Time
}

// Dependencies is the constructor-injection bag for NewService, mirroring
// the bootstrap wiring pattern used across the ambient adapters.
type Dependencies struct {
	Config Config

	Identity   ports.IdentityStore
	Consents   ports.ConsentRepository
	FISessions ports.FISessionStore

	Sealer      ports.AEADSealer
	KeyWrapper  ports.KeyWrapper
	TokenSigner ports.TokenSigner
	JWSSigner   ports.DetachedJWSSigner

	Http            ports.Http
	Sms             ports.SmsSender
	PlatformFetcher ports.PlatformFetcher
}

// NewService wires dependencies into a ready-to-use Service.
func NewService(deps Dependencies) *Service {
	return &Service{
		cfg:             deps.Config,
		identity:        deps.Identity,
		consents:        deps.Consents,
		fiSessions:      deps.FISessions,
		sealer:          deps.Sealer,
		keyWrapper:      deps.KeyWrapper,
		tokenSigner:     deps.TokenSigner,
		jwsSigner:       deps.JWSSigner,
		http:            deps.Http,
		sms:             deps.Sms,
		platformFetcher: deps.PlatformFetcher,
		auditLog:        newAuditRing(256),
		socialStore:     newSocialRecordStore(),
		nowFn:           func() time.Time { return time.Now().UTC() },
	}
}
