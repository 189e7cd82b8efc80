// main is the entry point for the tootstats CLI.
package main

import (
	"os"
	_ "time/tzdata"

	"github.com/huangsam/tootstats/cmd"
	"github.com/huangsam/tootstats/internal/contract"
	"github.com/huangsam/tootstats/internal/iocache"
)

func main() {
	cmd.SetStoreManager(iocache.Manager)

	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	iocache.CloseStores()
	if err != nil {
		contract.Logger().Error().Err(err).Msg("tootstats failed")
		os.Exit(1)
	}
}
