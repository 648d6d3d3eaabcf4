package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "PaperArchiver/internal/venue/aaai"
	_ "PaperArchiver/internal/venue/iclr"
	_ "PaperArchiver/internal/venue/icml"
	_ "PaperArchiver/internal/venue/ijcai"
	_ "PaperArchiver/internal/venue/neurips"
)

func main() {
	// 中断只在两条记录之间生效，正在写的文件会写完
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
