package accessworker

import (
	"context"
	"sync"

	coreconfig "github.com/AzielCF/az-gym/core/config"
	"github.com/sirupsen/logrus"
)

var (
	globalPool     *Pool
	globalPoolOnce sync.Once
	globalCancel   context.CancelFunc
)

// GetGlobalPool retorna el pool compartido por el servidor REST
func GetGlobalPool() *Pool {
	globalPoolOnce.Do(func() {
		var ctx context.Context
		ctx, globalCancel = context.WithCancel(context.Background())

		size, queue := 0, 0
		if coreconfig.Global != nil {
			size = coreconfig.Global.WorkerPool.Size
			queue = coreconfig.Global.WorkerPool.QueueSize
		}

		globalPool = NewPool(size, queue)
		globalPool.Start(ctx)
		logrus.Infof("[ACCESS_WORKER] Global instance started with %d workers and queue size %d", globalPool.numWorkers, globalPool.queueSize)
	})
	return globalPool
}

// StopGlobalPool detiene el pool compartido
func StopGlobalPool() {
	if globalCancel != nil {
		globalCancel()
	}
	if globalPool != nil {
		globalPool.Stop()
	}
}
