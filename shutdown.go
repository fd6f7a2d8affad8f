package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/SourceServerManager/srcds-agent/app/utils"
)

type operation func(ctx context.Context) error

// gracefulShutdown waits for a termination signal, then runs every shutdown
// operation concurrently under a shared timeout before releasing main.
func gracefulShutdown(ctx context.Context, timeout time.Duration, ops map[string]operation) <-chan struct{} {
	wait := make(chan struct{})

	go func() {
		s := make(chan os.Signal, 1)
		signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
		<-s

		utils.InfoLogger.Println("Shutting down agent..")

		timeoutFunc := time.AfterFunc(timeout, func() {
			utils.ErrorLogger.Printf("Timeout %v has elapsed, forcing exit", timeout)
			os.Exit(0)
		})
		defer timeoutFunc.Stop()

		var wg sync.WaitGroup
		for key, op := range ops {
			wg.Add(1)
			go func(key string, op operation) {
				defer wg.Done()

				utils.DebugLogger.Printf("Cleaning up: %s", key)
				if err := op(ctx); err != nil {
					utils.ErrorLogger.Printf("%s: clean up failed: %s", key, err.Error())
					return
				}

				utils.DebugLogger.Printf("%s was shutdown gracefully", key)
			}(key, op)
		}

		wg.Wait()
		close(wait)
	}()

	return wait
}
