package main

import (
	"fmt"
	"log"
	"math/big"
	"os"
	"os/signal"
	"syscall"

	"quantum-energy-chain/chain/energy"
	"quantum-energy-chain/chain/node"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	Commit    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "quantum-node",
	Short: "Quantum-resistant blockchain node",
	Long:  "A quantum-resistant blockchain node with EVM compatibility",
	Run:   runNode,
}

var (
	configFile    string
	port          int
	rpcPort       int
	dataDir       string
	genesisConfig string

	energyRecoveryWindowMs uint64
	energyUnfreezeDelayMs  uint64
	energyMaxUnfreezeEntries int
	energyMinDelegationCoin  uint64
	energyMaxDelegateLockDays uint32
	energyTotalLimit         uint64
	energyFreeQuota          uint64
	energyCoinPerEnergy      uint64
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file")
	rootCmd.PersistentFlags().IntVar(&port, "port", 30303, "P2P network port")
	rootCmd.PersistentFlags().IntVar(&rpcPort, "rpc-port", 8545, "JSON-RPC server port")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "./data", "data directory")
	rootCmd.PersistentFlags().StringVar(&genesisConfig, "genesis", "./config/genesis.json", "genesis configuration file")

	// Energy policy flags surface the consensus-critical constants in
	// chain/energy for operator visibility and genesis-file generation.
	// They are deliberately NOT wired to mutate chain/energy's constants at
	// runtime: those values are baked into every encoded AccountEnergy
	// record and every peer's consensus rules, so changing them per-node
	// would fork the chain. A future hard-fork upgrade path would thread
	// these through genesis rather than a node flag.
	rootCmd.PersistentFlags().Uint64Var(&energyRecoveryWindowMs, "energy-recovery-window-ms", energy.EnergyRecoveryWindowMs, "reference value of the staked-energy recovery window (informational; genesis-fixed)")
	rootCmd.PersistentFlags().Uint64Var(&energyUnfreezeDelayMs, "energy-unfreeze-delay-ms", energy.UnfreezeDelayMs, "reference value of the unfreeze queue delay (informational; genesis-fixed)")
	rootCmd.PersistentFlags().IntVar(&energyMaxUnfreezeEntries, "energy-max-unfreeze-entries", energy.MaxUnfreezingListSize, "reference value of the max pending unfreeze entries (informational; genesis-fixed)")
	rootCmd.PersistentFlags().Uint64Var(&energyMinDelegationCoin, "energy-min-delegation-coin", energy.MinDelegationAmount, "reference value of the minimum delegation amount (informational; genesis-fixed)")
	rootCmd.PersistentFlags().Uint32Var(&energyMaxDelegateLockDays, "energy-max-delegate-lock-days", energy.MaxDelegateLockDays, "reference value of the maximum delegation lock period (informational; genesis-fixed)")
	rootCmd.PersistentFlags().Uint64Var(&energyTotalLimit, "energy-total-limit", energy.TotalEnergyLimit, "reference value of the network-wide energy limit (informational; genesis-fixed)")
	rootCmd.PersistentFlags().Uint64Var(&energyFreeQuota, "energy-free-quota", energy.FreeEnergyQuota, "reference value of the per-account free energy quota (informational; genesis-fixed)")
	rootCmd.PersistentFlags().Uint64Var(&energyCoinPerEnergy, "energy-coin-per-energy", energy.CoinPerEnergy, "reference value of the coin-burn rate per energy unit (informational; genesis-fixed)")

	viper.BindPFlags(rootCmd.PersistentFlags())
}

func runNode(cmd *cobra.Command, args []string) {
	fmt.Printf("🚀 Starting Quantum Blockchain Node v%s\n", Version)
	fmt.Printf("📊 Build: %s (commit: %s)\n", BuildTime, Commit)

	warnIfEnergyPolicyOverridden()

	config := &node.Config{
		DataDir:       dataDir,
		NetworkID:     8888,
		ListenAddr:    fmt.Sprintf(":%d", port),
		HTTPPort:      rpcPort,
		WSPort:        rpcPort + 1,
		ValidatorKey:  "auto",  // Enable validator mode (key will be auto-generated)
		ValidatorAlg:  "dilithium",
		GenesisConfig: genesisConfig,
		Mining:        true,
		GasLimit:      15000000,
		GasPrice:      big.NewInt(1000000000), // 1 Gwei
	}

	// Create and start the node
	quantumNode, err := node.NewNode(config)
	if err != nil {
		log.Printf("❌ Failed to create node: %v", err)
		os.Exit(1)
	}
	
	// Start the node in a goroutine
	go func() {
		if err := quantumNode.Start(); err != nil {
			log.Printf("❌ Node failed to start: %v", err)
			os.Exit(1)
		}
	}()

	fmt.Printf("🌐 P2P listening on port %d\n", port)
	fmt.Printf("🔗 JSON-RPC server listening on port %d\n", rpcPort)
	fmt.Printf("💾 Data directory: %s\n", dataDir)
	fmt.Println("✅ Quantum blockchain is running!")

	// Wait for interrupt signal
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	
	<-c
	fmt.Println("\n🛑 Shutting down quantum blockchain node...")
	
	quantumNode.Stop()
	
	fmt.Println("👋 Quantum blockchain node stopped")
}

// warnIfEnergyPolicyOverridden flags any --energy-* flag the operator set
// to a value other than chain/energy's compiled-in constant, since this
// node will still enforce the compiled-in value at consensus time.
func warnIfEnergyPolicyOverridden() {
	mismatches := map[string]bool{
		"energy-recovery-window-ms":    viper.GetUint64("energy-recovery-window-ms") != energy.EnergyRecoveryWindowMs,
		"energy-unfreeze-delay-ms":     viper.GetUint64("energy-unfreeze-delay-ms") != energy.UnfreezeDelayMs,
		"energy-max-unfreeze-entries":  viper.GetInt("energy-max-unfreeze-entries") != energy.MaxUnfreezingListSize,
		"energy-min-delegation-coin":   viper.GetUint64("energy-min-delegation-coin") != energy.MinDelegationAmount,
		"energy-max-delegate-lock-days": uint32(viper.GetUint64("energy-max-delegate-lock-days")) != energy.MaxDelegateLockDays,
		"energy-total-limit":           viper.GetUint64("energy-total-limit") != energy.TotalEnergyLimit,
		"energy-free-quota":            viper.GetUint64("energy-free-quota") != energy.FreeEnergyQuota,
		"energy-coin-per-energy":       viper.GetUint64("energy-coin-per-energy") != energy.CoinPerEnergy,
	}
	for flag, mismatched := range mismatches {
		if mismatched {
			log.Printf("⚠️  --%s differs from the compiled-in energy policy constant; this node still enforces the compiled-in value", flag)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}