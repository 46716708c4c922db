// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gogpu/ink/internal/server"
	"github.com/gogpu/ink/store/storetest"
)

func TestServeShutsDown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	cfg := server.DefaultConfig()
	cfg.ShutdownTimeout = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serveListener(ctx, ln, cfg, server.New(cfg, storetest.Open(t))) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("/health = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serveListener() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestLoadServeConfigFlags(t *testing.T) {
	serveConfig, serveAddr, serveDB = "", ":9999", "other.db"
	t.Cleanup(func() { serveAddr, serveDB = "", "" })

	cfg, err := loadServeConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":9999" || cfg.DBPath != "other.db" || cfg.OwnerHeader != server.DefaultOwnerHeader {
		t.Errorf("cfg = %+v", cfg)
	}
}
