// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package rpc

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
	"github.com/hashicorp/docworld/session"
)

type Server struct {
	srvCtx     context.Context
	logger     *log.Logger
	srvOptions *jrpc2.ServerOptions
	svc        *service
}

// NewServer creates a JSON-RPC server exposing sess.
//
// Requests are handled one at a time, since the session
// serializes access anyway.
func NewServer(srvCtx context.Context, sess *session.Session) *Server {
	return &Server{
		srvCtx: srvCtx,
		logger: discardLogs,
		srvOptions: &jrpc2.ServerOptions{
			Concurrency: 1,
		},
		svc: NewService(sess),
	}
}

func (s *Server) SetLogger(logger *log.Logger) {
	s.srvOptions.Logger = jrpc2.StdLogger(logger)
	s.srvOptions.RPCLog = &rpcLogger{logger}
	s.svc.SetLogger(logger)
	s.logger = logger
}

// StartAndWait serves line-delimited JSON-RPC messages until
// the peer disconnects or the server context is cancelled
func (s *Server) StartAndWait(reader io.Reader, writer io.WriteCloser) error {
	srv := jrpc2.NewServer(s.svc.Assigner(), s.srvOptions).Start(channel.Line(reader, writer))
	s.logger.Printf("Starting server (pid %d) ...", os.Getpid())

	// Wrap waiter with a context so that we can cancel it here
	// after the peer disconnects (and srv.Wait returns)
	ctx, cancelFunc := context.WithCancel(s.srvCtx)
	go func() {
		err := srv.Wait()
		if err != nil {
			s.logger.Printf("Server finished: %s", err)
		}
		cancelFunc()
	}()

	<-ctx.Done()
	s.logger.Printf("Stopping server (pid %d) ...", os.Getpid())
	srv.Stop()

	s.logger.Printf("Server (pid %d) stopped.", os.Getpid())
	return nil
}
