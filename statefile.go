package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/0xask3/StakingWithPOS-NFT/internal/lib/staking"
	"github.com/0xask3/StakingWithPOS-NFT/internal/lib/token"
)

// AppState is everything the process persists: the ledger itself plus the
// in-process asset and ownership collaborators.
type AppState struct {
	Ledger    staking.Snapshot        `json:"ledger"`
	Asset     token.AssetSnapshot     `json:"asset"`
	Ownership token.OwnershipSnapshot `json:"ownership"`
}

func DefaultStateFilename() (string, error) {
	cfgDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	statePath := filepath.Join(cfgDir, "stakingledger", "state.json")
	err = os.MkdirAll(filepath.Dir(statePath), 0775) // user+group RWX, others RX
	if err != nil {
		return "", fmt.Errorf("error making directory:%s, error:%w", filepath.Dir(statePath), err)
	}
	return statePath, nil
}

// SaveAppState writes state by first saving into a temp file and then
// replacing the state file only if successfully written.
func SaveAppState(fname string, state *AppState) error {
	temp, err := os.CreateTemp(filepath.Dir(fname), filepath.Base(fname)+".*")
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(temp)
	err = encoder.Encode(state)
	if err != nil {
		_ = temp.Close()
		_ = os.Remove(temp.Name())
		return fmt.Errorf("error saving state: %w", err)
	}

	err = temp.Close()
	if err != nil {
		return err
	}

	return os.Rename(temp.Name(), fname)
}

func LoadAppState(fname string) (*AppState, error) {
	file, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	var state AppState
	err = decoder.Decode(&state)
	if err != nil {
		return nil, err
	}

	return &state, nil
}
