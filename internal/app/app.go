// Package app agrupa las dependencias compartidas por los handlers.
package app

import (
	jwtx "github.com/dropDatabas3/maildesk/internal/jwt"
	"github.com/dropDatabas3/maildesk/internal/mail"
	"github.com/dropDatabas3/maildesk/internal/store"
)

type Container struct {
	Store      *store.Store
	Issuer     *jwtx.Issuer
	Dispatcher *mail.Dispatcher
}
