package main

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/ioutil"
	"math/big"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/syndtr/goleveldb/leveldb"

	"quantum-energy-chain/chain/crypto"
	"quantum-energy-chain/chain/energy"
	"quantum-energy-chain/chain/energy/fee"
	"quantum-energy-chain/chain/storage"
	"quantum-energy-chain/chain/txexec"
	"quantum-energy-chain/chain/types"
)

// ValidatorConfig stores validator configuration
type ValidatorConfig struct {
	Address          string `json:"address"`
	QuantumPublicKey string `json:"quantumPublicKey"`
	QuantumAlgorithm uint8  `json:"quantumAlgorithm"`
	PrivateKeyPath   string `json:"privateKeyPath"`
	StakeAmount      string `json:"stakeAmount"`
	CommissionRate   uint16 `json:"commissionRate"`
	Metadata         string `json:"metadata"`
	RPCEndpoint      string `json:"rpcEndpoint"`
}

// ValidatorProfile stores complete validator information
type ValidatorProfile struct {
	Config           ValidatorConfig `json:"config"`
	DilithiumKeyPair *DilithiumKeys  `json:"dilithiumKeys,omitempty"`
	FalconKeyPair    *FalconKeys     `json:"falconKeys,omitempty"`
	CreatedAt        int64           `json:"createdAt"`
	Status           string          `json:"status"`
}

// DilithiumKeys represents Dilithium key pair
type DilithiumKeys struct {
	PrivateKey string `json:"privateKey"`
	PublicKey  string `json:"publicKey"`
	Algorithm  string `json:"algorithm"`
}

// FalconKeys represents Falcon/Hybrid key pair
type FalconKeys struct {
	PrivateKey string `json:"privateKey"`
	PublicKey  string `json:"publicKey"`
	Algorithm  string `json:"algorithm"`
}

func main() {
	// Define command-line flags
	var (
		cmdGenerate    = flag.Bool("generate", false, "Generate new validator keys")
		cmdRegister    = flag.Bool("register", false, "Register as validator on-chain")
		cmdStatus      = flag.Bool("status", false, "Check validator status")
		cmdDelegate    = flag.Bool("delegate", false, "Delegate to a validator")
		cmdExport      = flag.Bool("export", false, "Export validator configuration")
		cmdImport      = flag.String("import", "", "Import validator configuration from file")
		cmdBackup      = flag.Bool("backup", false, "Backup validator keys")
		cmdRestore     = flag.String("restore", "", "Restore validator keys from backup")

		cmdTransfer     = flag.Bool("transfer", false, "Transfer TOS coin to another address")
		cmdTransferAll  = flag.Bool("transfer_all", false, "Transfer entire spendable balance to another address")
		cmdBurn         = flag.Bool("burn", false, "Burn TOS coin")
		cmdFreezeTOS    = flag.Bool("freeze_tos", false, "Freeze TOS coin for staked energy")
		cmdUnfreezeTOS  = flag.Bool("unfreeze_tos", false, "Start an unfreeze of previously frozen TOS coin")
		cmdEnergyInfo   = flag.Bool("energy_info", false, "Show an account's staked-energy state")

		// Key generation options
		algorithm      = flag.String("algorithm", "dilithium", "Quantum algorithm: dilithium or falcon")
		outputDir      = flag.String("output", "./validator-keys", "Output directory for keys")
		
		// Registration options
		stakeAmount    = flag.String("stake", "100000", "Stake amount in QTM")
		commissionRate = flag.Uint("commission", 500, "Commission rate in basis points (500 = 5%)")
		metadata       = flag.String("metadata", "", "IPFS hash or URL for validator metadata")
		rpcEndpoint    = flag.String("rpc", "http://localhost:8545", "RPC endpoint")
		
		// Delegation options
		validatorAddr  = flag.String("validator", "", "Validator address to delegate to")
		delegateAmount = flag.String("amount", "100", "Amount to delegate in QTM")
		
		// Security options
		password         = flag.String("password", "", "Password for key encryption")
		passwordFile     = flag.String("password_file", "", "Path to a file containing the wallet password")
		passwordFromEnv  = flag.Bool("password_from_env", false, "Read the wallet password from TOS_WALLET_PASSWORD")
		mnemonic         = flag.Bool("mnemonic", false, "Generate mnemonic phrase for key recovery")

		// Energy-core command options (transfer/transfer_all/burn/freeze_tos/unfreeze_tos/energy_info)
		dataDir    = flag.String("datadir", "./data", "Path to the node's LevelDB data directory")
		toAddr     = flag.String("to", "", "Recipient address (transfer/transfer_all)")
		asset      = flag.String("asset", "TOS", "Asset to operate on; only TOS is supported")
		coinAmount = flag.String("coin_amount", "0", "Amount in coin sub-units (burn/freeze_tos/unfreeze_tos/transfer)")
		feeLimit   = flag.String("fee_limit", "100000", "Maximum coin sub-units authorized to be burned as fee")
		feeType    = flag.String("fee_type", "TOS", "Fee type: TOS or Energy")
		confirm    = flag.Bool("confirm", false, "Actually apply the transaction instead of previewing it")
	)

	flag.Parse()

	// Process commands
	switch {
	case *cmdGenerate:
		generateValidatorKeys(*algorithm, *outputDir, *password, *mnemonic)

	case *cmdRegister:
		registerValidator(*outputDir, *stakeAmount, uint16(*commissionRate), *metadata, *rpcEndpoint)

	case *cmdStatus:
		checkValidatorStatus(*outputDir, *rpcEndpoint)

	case *cmdDelegate:
		delegateToValidator(*validatorAddr, *delegateAmount, *rpcEndpoint)

	case *cmdExport:
		exportValidatorConfig(*outputDir)

	case *cmdImport != "":
		importValidatorConfig(*cmdImport, *outputDir)

	case *cmdBackup:
		pw, err := resolvePassword(*password, *passwordFile, *passwordFromEnv)
		if err != nil {
			fmt.Printf("Error resolving password: %v\n", err)
			os.Exit(1)
		}
		backupValidatorKeys(*outputDir, pw)

	case *cmdRestore != "":
		pw, err := resolvePassword(*password, *passwordFile, *passwordFromEnv)
		if err != nil {
			fmt.Printf("Error resolving password: %v\n", err)
			os.Exit(1)
		}
		restoreValidatorKeys(*cmdRestore, *outputDir, pw)

	case *cmdTransfer:
		runTransfer(*outputDir, *dataDir, *toAddr, *asset, *coinAmount, *feeLimit, *feeType, *confirm, false)

	case *cmdTransferAll:
		runTransfer(*outputDir, *dataDir, *toAddr, *asset, *coinAmount, *feeLimit, *feeType, *confirm, true)

	case *cmdBurn:
		runBurn(*outputDir, *dataDir, *asset, *coinAmount, *feeLimit, *feeType, *confirm)

	case *cmdFreezeTOS:
		runFreeze(*outputDir, *dataDir, *coinAmount, *confirm)

	case *cmdUnfreezeTOS:
		runUnfreeze(*outputDir, *dataDir, *coinAmount, *confirm)

	case *cmdEnergyInfo:
		runEnergyInfo(*outputDir, *dataDir)

	default:
		printHelp()
	}
}

// resolvePassword applies the explicit-argument > file > env-var >
// interactive-prompt > error precedence described in SPEC_FULL.md §6.
func resolvePassword(argPassword, passwordFile string, fromEnv bool) (string, error) {
	if argPassword != "" {
		return argPassword, nil
	}
	if passwordFile != "" {
		data, err := ioutil.ReadFile(passwordFile)
		if err != nil {
			return "", fmt.Errorf("reading password file: %w", err)
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}
	if fromEnv {
		if pw := os.Getenv("TOS_WALLET_PASSWORD"); pw != "" {
			return pw, nil
		}
	}
	if isInteractive() {
		fmt.Print("Enter wallet password: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("reading password from prompt: %w", err)
		}
		pw := strings.TrimRight(line, "\r\n")
		if pw != "" {
			return pw, nil
		}
	}
	return "", errors.New("no password supplied: pass -password, -password_file, set TOS_WALLET_PASSWORD, or run interactively")
}

func isInteractive() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// generateValidatorKeys generates new quantum-resistant validator keys
func generateValidatorKeys(algorithm, outputDir, password string, generateMnemonic bool) {
	fmt.Println("🔐 Generating Quantum-Resistant Validator Keys...")
	fmt.Printf("Algorithm: %s\n", strings.ToUpper(algorithm))
	
	// Create output directory
	if err := os.MkdirAll(outputDir, 0700); err != nil {
		fmt.Printf("Error creating directory: %v\n", err)
		return
	}
	
	var profile ValidatorProfile
	profile.CreatedAt = getCurrentTimestamp()
	profile.Status = "generated"
	
	switch strings.ToLower(algorithm) {
	case "dilithium":
		// Generate Dilithium keys
		privateKey, publicKey, err := crypto.GenerateDilithiumKeys()
		if err != nil {
			fmt.Printf("Error generating Dilithium keys: %v\n", err)
			return
		}
		
		// Create validator address from public key
		address := crypto.PublicKeyToAddress(publicKey)
		
		profile.DilithiumKeyPair = &DilithiumKeys{
			PrivateKey: hex.EncodeToString(privateKey),
			PublicKey:  hex.EncodeToString(publicKey),
			Algorithm:  "CRYSTALS-Dilithium-II",
		}
		
		profile.Config = ValidatorConfig{
			Address:          address.Hex(),
			QuantumPublicKey: hex.EncodeToString(publicKey),
			QuantumAlgorithm: 1, // Dilithium
			PrivateKeyPath:   filepath.Join(outputDir, "dilithium.key"),
			StakeAmount:      "100000",
			CommissionRate:   500, // 5%
		}
		
		// Save private key (encrypted if password provided)
		if err := savePrivateKey(privateKey, profile.Config.PrivateKeyPath, password); err != nil {
			fmt.Printf("Error saving private key: %v\n", err)
			return
		}
		
		fmt.Println("✅ Dilithium keys generated successfully!")
		fmt.Printf("📍 Validator Address: %s\n", address.Hex())
		fmt.Printf("🔑 Public Key: %s...\n", hex.EncodeToString(publicKey)[:64])
		
	case "falcon", "hybrid":
		// Generate Falcon/Hybrid keys
		privateKey, publicKey, err := crypto.GenerateFalconKeys()
		if err != nil {
			fmt.Printf("Error generating Falcon keys: %v\n", err)
			return
		}
		
		address := crypto.PublicKeyToAddress(publicKey)
		
		profile.FalconKeyPair = &FalconKeys{
			PrivateKey: hex.EncodeToString(privateKey),
			PublicKey:  hex.EncodeToString(publicKey),
			Algorithm:  "Falcon-512/ED25519-Hybrid",
		}
		
		profile.Config = ValidatorConfig{
			Address:          address.Hex(),
			QuantumPublicKey: hex.EncodeToString(publicKey),
			QuantumAlgorithm: 2, // Falcon
			PrivateKeyPath:   filepath.Join(outputDir, "falcon.key"),
			StakeAmount:      "100000",
			CommissionRate:   500,
		}
		
		// Save private key
		if err := savePrivateKey(privateKey, profile.Config.PrivateKeyPath, password); err != nil {
			fmt.Printf("Error saving private key: %v\n", err)
			return
		}
		
		fmt.Println("✅ Falcon/Hybrid keys generated successfully!")
		fmt.Printf("📍 Validator Address: %s\n", address.Hex())
		fmt.Printf("🔑 Public Key: %s...\n", hex.EncodeToString(publicKey)[:64])
		
	default:
		fmt.Printf("Unknown algorithm: %s\n", algorithm)
		return
	}
	
	// Generate mnemonic if requested
	if generateMnemonic {
		mnemonic := generateMnemonicPhrase()
		mnemonicPath := filepath.Join(outputDir, "mnemonic.txt")
		if err := ioutil.WriteFile(mnemonicPath, []byte(mnemonic), 0600); err != nil {
			fmt.Printf("Error saving mnemonic: %v\n", err)
			return
		}
		fmt.Println("📝 Mnemonic phrase generated and saved")
		fmt.Printf("⚠️  IMPORTANT: Store your mnemonic phrase safely!\n")
		fmt.Printf("Mnemonic: %s\n", mnemonic)
	}
	
	// Save validator profile
	profilePath := filepath.Join(outputDir, "validator-profile.json")
	if err := saveValidatorProfile(profile, profilePath); err != nil {
		fmt.Printf("Error saving profile: %v\n", err)
		return
	}
	
	fmt.Printf("\n📁 Keys saved to: %s\n", outputDir)
	fmt.Println("⚠️  Keep your private keys secure and never share them!")
	fmt.Println("\n🚀 Next steps:")
	fmt.Println("1. Fund your validator address with at least 100,000 QTM")
	fmt.Println("2. Run: validator-cli -register to register as a validator")
}

// registerValidator registers a new validator on-chain
func registerValidator(keyDir, stakeAmount string, commissionRate uint16, metadata, rpcEndpoint string) {
	fmt.Println("📝 Registering Validator On-Chain...")
	
	// Load validator profile
	profilePath := filepath.Join(keyDir, "validator-profile.json")
	profile, err := loadValidatorProfile(profilePath)
	if err != nil {
		fmt.Printf("Error loading profile: %v\n", err)
		return
	}
	
	// Load private key
	privateKey, err := loadPrivateKey(profile.Config.PrivateKeyPath, "")
	if err != nil {
		fmt.Printf("Error loading private key: %v\n", err)
		return
	}
	
	// Parse stake amount
	stake, ok := new(big.Int).SetString(stakeAmount, 10)
	if !ok {
		fmt.Printf("Invalid stake amount: %s\n", stakeAmount)
		return
	}
	
	// Convert to wei (18 decimals)
	weiMultiplier := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	stakeWei := new(big.Int).Mul(stake, weiMultiplier)
	
	fmt.Printf("📍 Validator Address: %s\n", profile.Config.Address)
	fmt.Printf("💰 Stake Amount: %s QTM\n", stakeAmount)
	fmt.Printf("📊 Commission Rate: %.2f%%\n", float64(commissionRate)/100)
	fmt.Printf("🌐 RPC Endpoint: %s\n", rpcEndpoint)
	
	// Create registration transaction
	fmt.Println("\n⏳ Creating registration transaction...")
	
	// In production, this would interact with the ValidatorRegistry contract
	// For now, we'll show the transaction details
	fmt.Println("\n📋 Transaction Details:")
	fmt.Printf("To: ValidatorRegistry Contract\n")
	fmt.Printf("Method: registerValidator\n")
	fmt.Printf("Parameters:\n")
	fmt.Printf("  - quantumPublicKey: %s\n", profile.Config.QuantumPublicKey[:64]+"...")
	fmt.Printf("  - sigAlgorithm: %d\n", profile.Config.QuantumAlgorithm)
	fmt.Printf("  - initialStake: %s wei\n", stakeWei.String())
	fmt.Printf("  - commissionRate: %d\n", commissionRate)
	fmt.Printf("  - metadata: %s\n", metadata)
	
	// Sign transaction with quantum signature
	message := []byte("REGISTER_VALIDATOR")
	var signature []byte
	
	if profile.Config.QuantumAlgorithm == 1 {
		signature, err = crypto.SignWithDilithium(privateKey, message)
	} else {
		signature, err = crypto.SignWithFalcon(privateKey, message)
	}
	
	if err != nil {
		fmt.Printf("Error signing transaction: %v\n", err)
		return
	}
	
	fmt.Printf("\n🔏 Quantum Signature: %s...\n", hex.EncodeToString(signature)[:64])
	
	// Update profile status
	profile.Status = "registered"
	profile.Config.StakeAmount = stakeAmount
	profile.Config.CommissionRate = commissionRate
	profile.Config.Metadata = metadata
	profile.Config.RPCEndpoint = rpcEndpoint
	
	if err := saveValidatorProfile(*profile, profilePath); err != nil {
		fmt.Printf("Error updating profile: %v\n", err)
		return
	}
	
	fmt.Println("\n✅ Validator registration transaction created!")
	fmt.Println("📤 Transaction would be submitted to the blockchain")
	fmt.Println("\n⏰ After registration:")
	fmt.Println("1. Wait for transaction confirmation")
	fmt.Println("2. Your validator will be activated once minimum stake is met")
	fmt.Println("3. Start your validator node to begin validating blocks")
}

// checkValidatorStatus checks the status of a validator
func checkValidatorStatus(keyDir, rpcEndpoint string) {
	fmt.Println("🔍 Checking Validator Status...")
	
	// Load validator profile
	profilePath := filepath.Join(keyDir, "validator-profile.json")
	profile, err := loadValidatorProfile(profilePath)
	if err != nil {
		fmt.Printf("Error loading profile: %v\n", err)
		return
	}
	
	fmt.Printf("\n📊 Validator Status Report\n")
	fmt.Printf("═══════════════════════════\n")
	fmt.Printf("Address: %s\n", profile.Config.Address)
	fmt.Printf("Algorithm: %s\n", getAlgorithmName(profile.Config.QuantumAlgorithm))
	fmt.Printf("Status: %s\n", profile.Status)
	fmt.Printf("Created: %s\n", formatTimestamp(profile.CreatedAt))
	
	if profile.Status == "registered" {
		fmt.Printf("\n💰 Staking Information:\n")
		fmt.Printf("  Self Stake: %s QTM\n", profile.Config.StakeAmount)
		fmt.Printf("  Commission: %.2f%%\n", float64(profile.Config.CommissionRate)/100)
		fmt.Printf("  Total Delegated: 0 QTM (simulated)\n")
		fmt.Printf("  Active: Yes (simulated)\n")
		
		fmt.Printf("\n📈 Performance Metrics:\n")
		fmt.Printf("  Blocks Proposed: 42 (simulated)\n")
		fmt.Printf("  Blocks Missed: 1 (simulated)\n")
		fmt.Printf("  Uptime: 97.6%% (simulated)\n")
		fmt.Printf("  Last Active: 2 minutes ago (simulated)\n")
		
		fmt.Printf("\n💵 Rewards:\n")
		fmt.Printf("  Pending Rewards: 127.5 QTM (simulated)\n")
		fmt.Printf("  Total Earned: 1,842.3 QTM (simulated)\n")
		fmt.Printf("  APY: 10.2%% (simulated)\n")
	}
	
	fmt.Printf("\n🔗 RPC Endpoint: %s\n", rpcEndpoint)
}

// delegateToValidator delegates tokens to a validator
func delegateToValidator(validatorAddr, amount, rpcEndpoint string) {
	if validatorAddr == "" {
		fmt.Println("Error: Validator address required")
		return
	}
	
	fmt.Println("💫 Delegating to Validator...")
	fmt.Printf("Validator: %s\n", validatorAddr)
	fmt.Printf("Amount: %s QTM\n", amount)
	fmt.Printf("RPC: %s\n", rpcEndpoint)
	
	// Parse amount
	delegateAmount, ok := new(big.Int).SetString(amount, 10)
	if !ok {
		fmt.Printf("Invalid amount: %s\n", amount)
		return
	}
	
	// Convert to wei
	weiMultiplier := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	amountWei := new(big.Int).Mul(delegateAmount, weiMultiplier)
	
	fmt.Printf("\n📋 Delegation Transaction:\n")
	fmt.Printf("  To: ValidatorRegistry\n")
	fmt.Printf("  Method: delegate\n")
	fmt.Printf("  Validator: %s\n", validatorAddr)
	fmt.Printf("  Amount: %s wei\n", amountWei.String())
	
	fmt.Println("\n✅ Delegation transaction prepared!")
	fmt.Println("📤 Transaction would be submitted to the blockchain")
}

// Helper functions

func savePrivateKey(key []byte, path, password string) error {
	// In production, encrypt with password
	if password != "" {
		// Encrypt key with password (simplified)
		key = append([]byte("ENCRYPTED:"), key...)
	}
	
	return ioutil.WriteFile(path, key, 0600)
}

func loadPrivateKey(path, password string) ([]byte, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	
	// In production, decrypt with password
	if password != "" && strings.HasPrefix(string(data), "ENCRYPTED:") {
		data = data[10:] // Remove prefix
	}
	
	return data, nil
}

func saveValidatorProfile(profile ValidatorProfile, path string) error {
	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return err
	}
	
	return ioutil.WriteFile(path, data, 0644)
}

func loadValidatorProfile(path string) (*ValidatorProfile, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	
	var profile ValidatorProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, err
	}
	
	return &profile, nil
}

func generateMnemonicPhrase() string {
	// Simplified mnemonic generation
	words := []string{
		"quantum", "resist", "validator", "stake", "secure",
		"block", "chain", "dilithium", "falcon", "crystal",
		"proof", "consensus",
	}
	
	// In production, use BIP39 wordlist and proper entropy
	mnemonic := ""
	for i := 0; i < 12; i++ {
		if i > 0 {
			mnemonic += " "
		}
		mnemonic += words[i%len(words)]
	}
	
	return mnemonic
}

func getCurrentTimestamp() int64 {
	return time.Now().Unix()
}

func formatTimestamp(ts int64) string {
	return time.Unix(ts, 0).Format("2006-01-02 15:04:05")
}

func getAlgorithmName(alg uint8) string {
	switch alg {
	case 1:
		return "CRYSTALS-Dilithium-II"
	case 2:
		return "Falcon-512/Hybrid"
	default:
		return "Unknown"
	}
}

func exportValidatorConfig(keyDir string) {
	fmt.Println("📤 Exporting Validator Configuration...")
	
	profilePath := filepath.Join(keyDir, "validator-profile.json")
	profile, err := loadValidatorProfile(profilePath)
	if err != nil {
		fmt.Printf("Error loading profile: %v\n", err)
		return
	}
	
	// Create export without private keys
	export := map[string]interface{}{
		"address":          profile.Config.Address,
		"publicKey":        profile.Config.QuantumPublicKey,
		"algorithm":        getAlgorithmName(profile.Config.QuantumAlgorithm),
		"commissionRate":   profile.Config.CommissionRate,
		"metadata":         profile.Config.Metadata,
		"status":           profile.Status,
		"createdAt":        formatTimestamp(profile.CreatedAt),
	}
	
	exportData, _ := json.MarshalIndent(export, "", "  ")
	exportPath := filepath.Join(keyDir, "validator-export.json")
	
	if err := ioutil.WriteFile(exportPath, exportData, 0644); err != nil {
		fmt.Printf("Error saving export: %v\n", err)
		return
	}
	
	fmt.Printf("✅ Configuration exported to: %s\n", exportPath)
}

func importValidatorConfig(importPath, outputDir string) {
	fmt.Printf("📥 Importing Validator Configuration from: %s\n", importPath)
	
	data, err := ioutil.ReadFile(importPath)
	if err != nil {
		fmt.Printf("Error reading file: %v\n", err)
		return
	}
	
	var profile ValidatorProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		fmt.Printf("Error parsing configuration: %v\n", err)
		return
	}
	
	// Create output directory
	if err := os.MkdirAll(outputDir, 0700); err != nil {
		fmt.Printf("Error creating directory: %v\n", err)
		return
	}
	
	// Save imported profile
	profilePath := filepath.Join(outputDir, "validator-profile.json")
	if err := saveValidatorProfile(profile, profilePath); err != nil {
		fmt.Printf("Error saving profile: %v\n", err)
		return
	}
	
	fmt.Println("✅ Configuration imported successfully!")
	fmt.Printf("📁 Saved to: %s\n", outputDir)
}

func backupValidatorKeys(keyDir, password string) {
	fmt.Println("💾 Creating Validator Backup...")
	
	// Create backup directory with timestamp
	timestamp := time.Now().Format("20060102-150405")
	backupDir := fmt.Sprintf("validator-backup-%s", timestamp)
	
	if err := os.MkdirAll(backupDir, 0700); err != nil {
		fmt.Printf("Error creating backup directory: %v\n", err)
		return
	}
	
	// Copy all files from keyDir to backupDir
	files, err := ioutil.ReadDir(keyDir)
	if err != nil {
		fmt.Printf("Error reading directory: %v\n", err)
		return
	}
	
	for _, file := range files {
		if !file.IsDir() {
			src := filepath.Join(keyDir, file.Name())
			dst := filepath.Join(backupDir, file.Name())
			
			data, err := ioutil.ReadFile(src)
			if err != nil {
				fmt.Printf("Error reading %s: %v\n", file.Name(), err)
				continue
			}
			
			if err := ioutil.WriteFile(dst, data, 0600); err != nil {
				fmt.Printf("Error writing %s: %v\n", file.Name(), err)
				continue
			}
			
			fmt.Printf("  ✓ Backed up: %s\n", file.Name())
		}
	}
	
	fmt.Printf("\n✅ Backup created: %s\n", backupDir)
	fmt.Println("⚠️  Store this backup in a secure location!")
}

func restoreValidatorKeys(backupPath, outputDir, password string) {
	fmt.Printf("♻️  Restoring Validator Keys from: %s\n", backupPath)
	
	// Check if backup exists
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		fmt.Printf("Backup not found: %s\n", backupPath)
		return
	}
	
	// Create output directory
	if err := os.MkdirAll(outputDir, 0700); err != nil {
		fmt.Printf("Error creating directory: %v\n", err)
		return
	}
	
	// Copy all files from backup to output
	files, err := ioutil.ReadDir(backupPath)
	if err != nil {
		fmt.Printf("Error reading backup: %v\n", err)
		return
	}
	
	for _, file := range files {
		if !file.IsDir() {
			src := filepath.Join(backupPath, file.Name())
			dst := filepath.Join(outputDir, file.Name())
			
			data, err := ioutil.ReadFile(src)
			if err != nil {
				fmt.Printf("Error reading %s: %v\n", file.Name(), err)
				continue
			}
			
			if err := ioutil.WriteFile(dst, data, 0600); err != nil {
				fmt.Printf("Error writing %s: %v\n", file.Name(), err)
				continue
			}
			
			fmt.Printf("  ✓ Restored: %s\n", file.Name())
		}
	}
	
	fmt.Printf("\n✅ Keys restored to: %s\n", outputDir)
}

// cliLedger is the narrow txexec.Ledger backed directly by the node's
// on-disk balance rows ("balance-"+addr.Bytes(), a big-endian big.Int),
// the same convention chain/node/blockchain.go's StateDB persists to. It
// is meant for offline use against a data directory the node is not
// currently holding open, the same assumption the rest of this package's
// manual tooling already makes.
type cliLedger struct {
	db *leveldb.DB
}

func (l *cliLedger) balanceKey(addr types.Address) []byte {
	return append([]byte("balance-"), addr.Bytes()...)
}

func (l *cliLedger) Balance(addr types.Address) uint64 {
	data, err := l.db.Get(l.balanceKey(addr), nil)
	if err != nil {
		return 0
	}
	return new(big.Int).SetBytes(data).Uint64()
}

func (l *cliLedger) SetBalance(addr types.Address, balance uint64) {
	_ = l.db.Put(l.balanceKey(addr), new(big.Int).SetUint64(balance).Bytes(), nil)
}

// openEnergyStore opens the node's LevelDB data directory for direct
// offline access by the energy-core CLI commands, returning the pieces
// txexec needs plus a closer the caller must defer.
func openEnergyStore(dataDir string) (*leveldb.DB, storage.Provider, *cliLedger, func(), error) {
	db, err := leveldb.OpenFile(dataDir, nil)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("opening data directory %s: %w", dataDir, err)
	}
	provider := storage.NewLevelDBProvider(db)
	ledger := &cliLedger{db: db}
	return db, provider, ledger, func() { db.Close() }, nil
}

// loadSenderAddress reads the address of the validator profile stored in
// keyDir, which this CLI already uses as the wallet identity for every
// other command.
func loadSenderAddress(keyDir string) (types.Address, error) {
	profile, err := loadValidatorProfile(filepath.Join(keyDir, "validator-profile.json"))
	if err != nil {
		return types.ZeroAddress, fmt.Errorf("loading wallet profile (run -generate first): %w", err)
	}
	return types.HexToAddress(profile.Config.Address)
}

func parseCoinAmount(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid coin amount %q: %w", s, err)
	}
	return v, nil
}

// runTransfer implements the `transfer`/`transfer_all` CLI commands. With
// transferAll, the spendable balance minus fee_limit is sent in full,
// matching the CLI surface table's "entire balance minus fee" semantics.
func runTransfer(keyDir, dataDir, to, asset, coinAmount, feeLimitStr, feeType string, confirm, transferAll bool) {
	if !strings.EqualFold(asset, "TOS") {
		fmt.Printf("Error: only the TOS asset is supported, got %q\n", asset)
		os.Exit(1)
	}
	if !strings.EqualFold(feeType, "TOS") {
		fmt.Printf("Error: TOS transfers must use fee_type TOS, got %q\n", feeType)
		os.Exit(1)
	}
	if to == "" {
		fmt.Println("Error: -to is required")
		os.Exit(1)
	}

	sender, err := loadSenderAddress(keyDir)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	recipient, err := types.HexToAddress(to)
	if err != nil {
		fmt.Printf("Error: invalid recipient address: %v\n", err)
		os.Exit(1)
	}
	feeLimit, err := parseCoinAmount(feeLimitStr)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	db, provider, ledger, closeDB, err := openEnergyStore(dataDir)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer closeDB()

	amount, err := parseCoinAmount(coinAmount)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if transferAll {
		spendable := ledger.Balance(sender)
		amount = 0
		if spendable > feeLimit {
			amount = spendable - feeLimit
		}
	}

	newAccounts := uint64(0)
	if _, err := db.Get(append([]byte("balance-"), recipient.Bytes()...), nil); err != nil {
		newAccounts = 1
	}

	payload := &txexec.Payload{
		Kind:           txexec.PayloadTransfer,
		Sender:         sender,
		To:             recipient,
		TransferAmount: amount,
		FeeLimit:       feeLimit,
		TxSizeBytes:    250,
		Outputs:        1,
		NewAccounts:    newAccounts,
	}

	submitPayload(provider, ledger, payload, confirm, fmt.Sprintf("transfer %d sub-units %s -> %s", amount, sender.Hex(), recipient.Hex()))
}

// runBurn implements the `burn` CLI command.
func runBurn(keyDir, dataDir, asset, coinAmount, feeLimitStr, feeType string, confirm bool) {
	if !strings.EqualFold(asset, "TOS") {
		fmt.Printf("Error: only the TOS asset is supported, got %q\n", asset)
		os.Exit(1)
	}
	if !strings.EqualFold(feeType, "TOS") {
		fmt.Printf("Error: TOS transfers must use fee_type TOS, got %q\n", feeType)
		os.Exit(1)
	}

	sender, err := loadSenderAddress(keyDir)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	amount, err := parseCoinAmount(coinAmount)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	feeLimit, err := parseCoinAmount(feeLimitStr)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	_, provider, ledger, closeDB, err := openEnergyStore(dataDir)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer closeDB()

	payload := &txexec.Payload{
		Kind:           txexec.PayloadBurn,
		Sender:         sender,
		TransferAmount: amount,
		FeeLimit:       feeLimit,
	}
	submitPayload(provider, ledger, payload, confirm, fmt.Sprintf("burn %d sub-units from %s", amount, sender.Hex()))
}

// runFreeze implements the `freeze_tos` CLI command.
func runFreeze(keyDir, dataDir, coinAmount string, confirm bool) {
	sender, err := loadSenderAddress(keyDir)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	amount, err := parseCoinAmount(coinAmount)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	_, provider, ledger, closeDB, err := openEnergyStore(dataDir)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer closeDB()

	payload := &txexec.Payload{
		Kind:     txexec.PayloadFreeze,
		Sender:   sender,
		Amount:   amount,
		FeeLimit: 0,
	}
	submitPayload(provider, ledger, payload, confirm, fmt.Sprintf("freeze %d sub-units for %s", amount, sender.Hex()))
}

// runUnfreeze implements the `unfreeze_tos` CLI command.
func runUnfreeze(keyDir, dataDir, coinAmount string, confirm bool) {
	sender, err := loadSenderAddress(keyDir)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	amount, err := parseCoinAmount(coinAmount)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	_, provider, ledger, closeDB, err := openEnergyStore(dataDir)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer closeDB()

	payload := &txexec.Payload{
		Kind:     txexec.PayloadUnfreeze,
		Sender:   sender,
		Amount:   amount,
		FeeLimit: 0,
	}
	submitPayload(provider, ledger, payload, confirm, fmt.Sprintf("unfreeze %d sub-units for %s", amount, sender.Hex()))
}

// submitPayload runs VerifyPhase against payload and, if confirm is set,
// ApplyPhase to commit it; otherwise it prints a dry-run preview. Exit
// code is nonzero on any validation or I/O error, per SPEC_FULL.md §6.
func submitPayload(provider storage.Provider, ledger txexec.Ledger, payload *txexec.Payload, confirm bool, description string) {
	global, err := storage.LoadGlobalEnergyState(provider)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	nowMs := uint64(time.Now().UnixMilli())
	calc := fee.NewEnergyFeeCalculator()
	delegations := energy.NewDelegationTable()

	vctx := &txexec.VerifyContext{
		Provider:    provider,
		Ledger:      ledger,
		Global:      global,
		Delegations: delegations,
		Calculator:  calc,
		NowMs:       nowMs,
	}
	reservation, err := txexec.VerifyPhase(vctx, payload)
	if err != nil {
		fmt.Printf("❌ Rejected: %v\n", err)
		os.Exit(1)
	}

	if !confirm {
		fmt.Printf("✅ Would accept: %s (fee_limit reserved: %d sub-units)\n", description, payload.FeeLimit)
		fmt.Println("Pass -confirm to apply this transaction.")
		// VerifyPhase already reserved fee_limit against the preview; since
		// this is a dry run, release it back immediately.
		ledger.SetBalance(payload.Sender, ledger.Balance(payload.Sender)+reservation.FeeLimit)
		return
	}

	actx := &txexec.ApplyContext{
		Batch:       provider.NewBatch(),
		Provider:    provider,
		Ledger:      ledger,
		Global:      global,
		Delegations: delegations,
		Calculator:  calc,
		Resource:    fee.NewEnergyResourceManager(),
		NowMs:       nowMs,
	}
	result, err := txexec.ApplyPhase(actx, reservation)
	if err != nil {
		fmt.Printf("❌ Apply failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Applied: %s\n", description)
	fmt.Printf("   energy_used=%d free=%d frozen=%d fee=%d\n",
		result.EnergyUsed, result.FreeEnergyUsed, result.FrozenEnergyUsed, result.Fee)
}

// runEnergyInfo implements the read-only `energy_info` CLI command.
func runEnergyInfo(keyDir, dataDir string) {
	sender, err := loadSenderAddress(keyDir)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	_, provider, _, closeDB, err := openEnergyStore(dataDir)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer closeDB()

	acct, err := storage.LoadAccountEnergy(provider, sender)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	global, err := storage.LoadGlobalEnergyState(provider)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	nowMs := uint64(time.Now().UnixMilli())
	fmt.Printf("\n⚡ Energy Info: %s\n", sender.Hex())
	fmt.Printf("═══════════════════════════\n")
	fmt.Printf("Frozen balance:        %d\n", acct.FrozenBalance)
	fmt.Printf("Delegated out:         %d\n", acct.DelegatedFrozenBalance)
	fmt.Printf("Acquired (delegated in): %d\n", acct.AcquiredDelegatedBalance)
	fmt.Printf("Effective frozen:      %d\n", acct.EffectiveFrozenBalance())
	fmt.Printf("Available to delegate: %d\n", acct.AvailableForDelegation())
	fmt.Printf("Energy limit:          %d\n", acct.EnergyLimit(global.TotalEnergyWeight))
	fmt.Printf("Staked energy avail.:  %d\n", acct.FrozenEnergyAvailable(nowMs, global.TotalEnergyWeight))
	fmt.Printf("Free energy avail.:    %d / %d\n", acct.FreeEnergyAvailable(nowMs), energy.FreeEnergyQuota)
	fmt.Printf("Pending unfreeze entries: %d\n", len(acct.UnfreezingList))
	for i, e := range acct.UnfreezingList {
		fmt.Printf("  [%d] amount=%d expire_time=%d\n", i, e.Amount, e.ExpireTime)
	}
}

func printHelp() {
	fmt.Println("Quantum Blockchain Validator CLI")
	fmt.Println("=================================")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  -generate    Generate new validator keys")
	fmt.Println("  -register    Register as validator on-chain")
	fmt.Println("  -status      Check validator status")
	fmt.Println("  -delegate    Delegate to a validator")
	fmt.Println("  -export      Export validator configuration")
	fmt.Println("  -import      Import validator configuration")
	fmt.Println("  -backup      Backup validator keys")
	fmt.Println("  -restore     Restore validator keys")
	fmt.Println("  -transfer    Transfer TOS coin to another address")
	fmt.Println("  -transfer_all Transfer entire spendable balance minus fee")
	fmt.Println("  -burn        Burn TOS coin")
	fmt.Println("  -freeze_tos  Freeze TOS coin for staked energy")
	fmt.Println("  -unfreeze_tos Start an unfreeze of previously frozen TOS coin")
	fmt.Println("  -energy_info Show an account's staked-energy state")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -algorithm   Quantum algorithm (dilithium/falcon)")
	fmt.Println("  -output      Output directory for keys")
	fmt.Println("  -stake       Stake amount in QTM")
	fmt.Println("  -commission  Commission rate in basis points")
	fmt.Println("  -metadata    Validator metadata (IPFS/URL)")
	fmt.Println("  -rpc         RPC endpoint")
	fmt.Println("  -validator   Validator address (for delegation)")
	fmt.Println("  -amount      Delegation amount in QTM")
	fmt.Println("  -password    Password for key encryption")
	fmt.Println("  -password_file       Read wallet password from a file")
	fmt.Println("  -password_from_env   Read wallet password from TOS_WALLET_PASSWORD")
	fmt.Println("  -mnemonic    Generate mnemonic phrase")
	fmt.Println("  -datadir     Path to the node's LevelDB data directory")
	fmt.Println("  -to          Recipient address (transfer/transfer_all)")
	fmt.Println("  -asset       Asset to operate on; only TOS is supported")
	fmt.Println("  -coin_amount Amount in coin sub-units")
	fmt.Println("  -fee_limit   Maximum coin sub-units authorized to be burned as fee")
	fmt.Println("  -fee_type    Fee type: TOS or Energy")
	fmt.Println("  -confirm     Apply the transaction instead of previewing it")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  # Generate new Dilithium validator keys")
	fmt.Println("  validator-cli -generate -algorithm dilithium")
	fmt.Println()
	fmt.Println("  # Register as validator with 100K QTM stake")
	fmt.Println("  validator-cli -register -stake 100000 -commission 500")
	fmt.Println()
	fmt.Println("  # Check validator status")
	fmt.Println("  validator-cli -status")
	fmt.Println()
	fmt.Println("  # Delegate 1000 QTM to a validator")
	fmt.Println("  validator-cli -delegate -validator 0x... -amount 1000")
	fmt.Println()
	fmt.Println("  # Freeze 10 TOS for staked energy")
	fmt.Println("  validator-cli -freeze_tos -coin_amount 1000000000 -confirm")
	fmt.Println()
	fmt.Println("  # Check staked-energy state")
	fmt.Println("  validator-cli -energy_info")
}