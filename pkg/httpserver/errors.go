package httpserver

import "errors"

var ErrStart = errors.New("httpserver: failed to start")
