package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/denimhub/denimhub-backend/pkg/config"
	"golang.org/x/crypto/argon2"
)

const argonVersionTag = "v=19"

// generatedPasswordAlphabet skips characters that are easy to misread when an admin
// reads a new customer's password out over the phone.
const generatedPasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz23456789"

var ErrInvalidHash = errors.New("invalid argon2id hash")

type argonParams struct {
	memory  uint32
	time    uint32
	threads uint8
	saltLen uint32
	keyLen  uint32
}

// HashPassword encodes password as $argon2id$v=19$m=..,t=..,p=..$salt$key.
// The parameters come from cfg, clamped to sane bounds.
func HashPassword(password string, cfg config.PasswordConfig) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	params := paramsFromConfig(cfg)
	salt := make([]byte, params.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, params.time, params.memory, params.threads, params.keyLen)

	return fmt.Sprintf("$argon2id$%s$m=%d,t=%d,p=%d$%s$%s",
		argonVersionTag,
		params.memory, params.time, params.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// VerifyPassword reports whether password produces the key stored in encoded.
func VerifyPassword(password, encoded string) (bool, error) {
	params, salt, key, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}
	computed := argon2.IDKey([]byte(password), salt, params.time, params.memory, params.threads, params.keyLen)
	return subtle.ConstantTimeCompare(key, computed) == 1, nil
}

// GenerateTempPassword returns a random password for a customer account created
// on the customer's behalf.
func GenerateTempPassword(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive")
	}
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		idx, err := randInt(len(generatedPasswordAlphabet))
		if err != nil {
			return "", fmt.Errorf("generate password: %w", err)
		}
		b.WriteByte(generatedPasswordAlphabet[idx])
	}
	return b.String(), nil
}

func paramsFromConfig(cfg config.PasswordConfig) argonParams {
	return argonParams{
		memory:  uint32(clamp(cfg.ArgonMemoryKB, 8, 512*1024)),
		time:    uint32(clamp(cfg.ArgonTime, 1, 10)),
		threads: uint8(clamp(cfg.ArgonParallelism, 1, 255)),
		saltLen: uint32(clamp(cfg.ArgonSaltLen, 8, 64)),
		keyLen:  uint32(clamp(cfg.ArgonKeyLen, 16, 64)),
	}
}

func decodeHash(encoded string) (argonParams, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" || parts[2] != argonVersionTag {
		return argonParams{}, nil, nil, ErrInvalidHash
	}

	var params argonParams
	for _, field := range strings.Split(parts[3], ",") {
		name, raw, ok := strings.Cut(field, "=")
		if !ok {
			return argonParams{}, nil, nil, ErrInvalidHash
		}
		var bits int
		switch name {
		case "m", "t":
			bits = 32
		case "p":
			bits = 8
		default:
			continue
		}
		v, err := strconv.ParseUint(raw, 10, bits)
		if err != nil || v == 0 {
			return argonParams{}, nil, nil, ErrInvalidHash
		}
		switch name {
		case "m":
			params.memory = uint32(v)
		case "t":
			params.time = uint32(v)
		case "p":
			params.threads = uint8(v)
		}
	}
	if params.memory == 0 || params.time == 0 || params.threads == 0 {
		return argonParams{}, nil, nil, ErrInvalidHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return argonParams{}, nil, nil, ErrInvalidHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return argonParams{}, nil, nil, ErrInvalidHash
	}
	params.saltLen = uint32(len(salt))
	params.keyLen = uint32(len(key))
	return params, salt, key, nil
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
