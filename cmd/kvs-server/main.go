// Command kvs-server runs the TCP front end over either the native
// log-structured engine or the alternate bbolt-backed adapter.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/iamNilotpal/kvs/internal/backend/bolt"
	"github.com/iamNilotpal/kvs/internal/config"
	"github.com/iamNilotpal/kvs/internal/engine"
	"github.com/iamNilotpal/kvs/internal/enginehandle"
	"github.com/iamNilotpal/kvs/internal/server"
	kvserrors "github.com/iamNilotpal/kvs/pkg/errors"
	"github.com/iamNilotpal/kvs/pkg/filesys"
	"github.com/iamNilotpal/kvs/pkg/logger"
	"github.com/iamNilotpal/kvs/pkg/options"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kvs-server",
		Short: "Run the key/value store server",
	}

	flags := config.RegisterFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		resolved := config.Resolve(cmd, flags)
		return run(resolved.Addr, resolved.Backend, resolved.DataPath, resolved.Dev)
	}

	return cmd
}

func run(addr, backend, dataPath string, dev bool) error {
	log := logger.New("kvs-server", dev)

	if err := filesys.CreateDir(dataPath, 0755, true); err != nil {
		return err
	}

	if err := engine.CheckMarker(dataPath, backend); err != nil {
		return err
	}
	if err := engine.WriteMarker(dataPath, backend); err != nil {
		return err
	}

	var eng enginehandle.Engine
	var err error
	switch backend {
	case "kvs":
		resolved := options.Apply(options.WithDataDir(dataPath))
		eng, err = engine.Open(&engine.Config{Logger: log, Options: &resolved})
	case "bolt":
		eng, err = bolt.Open(filepath.Join(dataPath, "bolt.db"))
	default:
		return fmt.Errorf("kvs-server: unknown engine %q", backend)
	}
	if err != nil {
		if se, ok := kvserrors.AsStorageError(err); ok {
			log.Errorw("failed to open storage backend",
				"path", se.Path(),
				"file", se.FileName(),
				"segment", se.SegmentId(),
				"offset", se.Offset(),
				"code", se.Code(),
			)
		}
		return err
	}
	defer eng.Close()

	srv := server.New(addr, eng, options.DefaultWorkerCount(), log)
	if err := srv.Start(); err != nil {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Infow("shutting down")
	srv.Stop()
	srv.Wait()
	return nil
}
