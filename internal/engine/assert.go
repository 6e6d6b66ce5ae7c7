package engine

import "github.com/iamNilotpal/kvs/internal/enginehandle"

var _ enginehandle.Engine = (*Engine)(nil)
