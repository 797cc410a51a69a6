// Package logger builds configured log/slog loggers for the queue's
// background actors (worker, producer, reclaimer).
//
// Text output for development, JSON for production aggregation:
//
//	log := logger.New(
//	    logger.WithFormat(logger.FormatJSON),
//	    logger.WithLevel(slog.LevelDebug),
//	    logger.WithAttr(slog.String("service", "workqueue")),
//	)
//
//	worker, err := workqueue.NewWorker(queue, handler,
//	    workqueue.WithWorkerLogger(log))
package logger
