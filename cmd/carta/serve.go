package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/saxonthune/carta-sub006/internal/config"
	"github.com/saxonthune/carta-sub006/pkg/canvas"
	"github.com/saxonthune/carta-sub006/pkg/document"
	"github.com/saxonthune/carta-sub006/pkg/live"
	"github.com/saxonthune/carta-sub006/pkg/viewport"
)

func newServeCommand() *cobra.Command {
	var port int
	var host string
	var docPath string
	var noWatch bool

	cmd := &cobra.Command{
		Use:   "serve [document]",
		Short: "Serve a diagram over websocket",
		Long: `Starts a server that hosts the diagram for browser clients. Each
connection gets its own viewport and interaction state over the shared
document. With watching enabled, edits to the document file are picked
up and pushed to every connected client.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				docPath = args[0]
			}
			return runServe(host, port, docPath, !noWatch)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to")
	cmd.Flags().StringVar(&docPath, "document", "", "Path to the diagram file (overrides carta.yaml)")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Disable document file watching")

	return cmd
}

func runServe(host string, port int, docPath string, watch bool) error {
	cfg, err := config.Load(".")
	if err != nil {
		return err
	}
	if port != 0 {
		cfg.Serve.Port = port
	}
	if host != "" {
		cfg.Serve.Host = host
	}
	if docPath == "" {
		docPath = cfg.Document.Path
	}
	watch = watch && cfg.Document.Watch

	doc, err := document.Load(docPath)
	if err != nil {
		return fmt.Errorf("load %s: %w", docPath, err)
	}
	log.Printf("[Serve] loaded %s: %d nodes, %d edges", docPath, len(doc.Nodes()), len(doc.Edges()))

	server := live.NewServer(func() *canvas.Canvas {
		return canvas.New(doc, canvas.Options{
			Viewport: &viewport.Options{
				MinZoom: cfg.Viewport.MinZoom,
				MaxZoom: cfg.Viewport.MaxZoom,
			},
			CurveCap: cfg.Canvas.CurveCap,
		})
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if watch {
		if err := watchDocument(ctx, docPath, doc, server); err != nil {
			log.Printf("[Serve] file watching disabled: %v", err)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/live", server.HandleWebSocket)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	httpServer := &http.Server{Addr: cfg.Addr(), Handler: mux}

	go func() {
		<-ctx.Done()
		log.Println("[Serve] shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Printf("[Serve] listening on ws://%s/live", cfg.Addr())
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// watchDocument reloads the document when its file changes and pushes a
// fresh frame to every session. Editors replace files with rename/create
// sequences, so the watch covers the parent directory and filters by name.
func watchDocument(ctx context.Context, path string, doc *document.Document, server *live.Server) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()

		var debounce *time.Timer
		reload := func() {
			next, err := document.Load(path)
			if err != nil {
				log.Printf("[Serve] reload failed, keeping previous document: %v", err)
				return
			}
			doc.Replace(next)
			log.Printf("[Serve] reloaded %s: %d nodes, %d edges", path, len(next.Nodes()), len(next.Edges()))
			server.Broadcast()
		}

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(path) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				// Coalesce the burst of events a single save produces.
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(100*time.Millisecond, reload)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("[Serve] watch error: %v", err)
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Printf("[Serve] watching %s for changes", path)
	return nil
}
