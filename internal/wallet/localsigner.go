package wallet

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/sha3"

	"github.com/cobaltstack/chainforge/pkg/types"
)

// baseTxGas is the flat cost charged per transaction, plus perByteGas for
// every byte of calldata.
const (
	baseTxGas  = 21000
	perByteGas = 68
)

// LocalSigner is the in-process development wallet backend. It derives an
// ed25519 keypair from a hex seed, computes a keccak-based address, and
// signs deterministically without touching any network. It deliberately does
// not claim TypedDataSigner or EventEmitter, so those methods are blocked at
// the interception boundary.
type LocalSigner struct {
	name    string
	version string
	priv    ed25519.PrivateKey
	address string

	mu    sync.Mutex
	nonce uint64
}

// NewLocalSigner is the localsigner construction handle registered with the
// wallet module. opts.Options["privateKey"] must be a 0x-prefixed 64-char
// hex seed; the validator has already checked its presence and type.
func NewLocalSigner(_ context.Context, opts types.CreateOptions) (any, error) {
	raw, _ := opts.Options["privateKey"].(string)
	seed, err := decodeSeed(raw)
	if err != nil {
		return nil, err
	}

	priv := ed25519.NewKeyFromSeed(seed)
	return &LocalSigner{
		name:    opts.Name,
		version: opts.Version,
		priv:    priv,
		address: deriveAddress(priv.Public().(ed25519.PublicKey)),
	}, nil
}

func decodeSeed(raw string) ([]byte, error) {
	trimmed := strings.TrimPrefix(raw, "0x")
	seed, err := hex.DecodeString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: not hex encoded")
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("invalid private key: need %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return seed, nil
}

// deriveAddress hashes the public key with keccak-256 and keeps the last 20
// bytes, the usual EVM address construction.
func deriveAddress(pub ed25519.PublicKey) string {
	h := sha3.NewLegacyKeccak256()
	h.Write(pub)
	digest := h.Sum(nil)
	return "0x" + hex.EncodeToString(digest[len(digest)-20:])
}

func (s *LocalSigner) Name() string    { return s.name }
func (s *LocalSigner) Version() string { return s.version }
func (s *LocalSigner) Address() string { return s.address }
func (s *LocalSigner) Close() error    { return nil }

func (s *LocalSigner) SignMessage(_ context.Context, msg []byte) (string, error) {
	if len(msg) == 0 {
		return "", errors.New("empty message")
	}
	return "0x" + hex.EncodeToString(ed25519.Sign(s.priv, msg)), nil
}

func (s *LocalSigner) SignTransaction(ctx context.Context, tx *types.TransactionRequest) (string, error) {
	payload, err := canonicalTx(tx)
	if err != nil {
		return "", err
	}
	return s.SignMessage(ctx, payload)
}

func (s *LocalSigner) SendTransaction(ctx context.Context, tx *types.TransactionRequest) (*types.TransactionReceipt, error) {
	signed, err := s.SignTransaction(ctx, tx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	nonce := s.nonce
	s.nonce++
	s.mu.Unlock()

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(signed))
	return &types.TransactionReceipt{
		Hash:    "0x" + hex.EncodeToString(h.Sum(nil)),
		From:    s.address,
		To:      tx.To,
		Nonce:   nonce,
		ChainID: tx.ChainID,
	}, nil
}

func (s *LocalSigner) SignTypedData(context.Context, *types.TypedData) (string, error) {
	// Unreachable through the guarded decorator: TypedDataSigner is not
	// among localsigner's declared capabilities.
	return "", errors.New("typed data signing not implemented")
}

func (s *LocalSigner) EstimateGas(_ context.Context, tx *types.TransactionRequest) (uint64, error) {
	if tx == nil {
		return 0, errors.New("nil transaction")
	}
	return uint64(baseTxGas + perByteGas*len(tx.Data)), nil
}

func (s *LocalSigner) WatchEvents(context.Context, *types.EventFilter, chan<- types.Event) error {
	return errors.New("event subscriptions not supported")
}

func canonicalTx(tx *types.TransactionRequest) ([]byte, error) {
	if tx == nil {
		return nil, errors.New("nil transaction")
	}
	if tx.To == "" {
		return nil, errors.New("transaction has no recipient")
	}
	return json.Marshal(tx)
}
