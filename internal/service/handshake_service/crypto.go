package handshake_service

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"encoding/json"

	"github.com/sirupsen/logrus"
)

// Crypto — CipherEngine протокола: две фиксированные композиции шифров.
//
// Layer-1 (заголовки и bootstrap, статические ключи):
//
//	encrypt: JSON -> XOR(xor2) -> XOR(xor1) -> AES-256-ECB(aes1) -> base64
//	decrypt: base64 -> AES-256-ECB(aes1) -> XOR(xor1) -> XOR(xor2) -> JSON
//
// Layer-2 (тело Phase-2, сессионные ключи поверх Layer-1):
//
//	encrypt: JSON -> XOR(xor1) -> AES-256-ECB(aes1) -> XOR(xor2) -> XOR(xor3) -> AES-256-CBC(aes2Key, aes2Iv) -> base64
//	decrypt: в точности зеркально
//
// Порядок вложения — жёсткий контракт с клиентом, менять нельзя.
type Crypto struct {
	keys *StaticKeys
}

func NewCrypto(keys *StaticKeys) *Crypto {
	return &Crypto{keys: keys}
}

// xorCycle накладывает ключ байт за байтом с зацикливанием key[i % len(key)].
// Длины данных и ключа могут не совпадать.
func xorCycle(data, key []byte) []byte {
	out := make([]byte, len(data))
	for i := range data {
		out[i] = data[i] ^ key[i%len(key)]
	}
	return out
}

// PKCS#7 padding под блок AES
func pkcs7Pad(data []byte) []byte {
	padLen := aes.BlockSize - len(data)%aes.BlockSize
	out := make([]byte, len(data)+padLen)
	copy(out, data)
	for i := len(data); i < len(out); i++ {
		out[i] = byte(padLen)
	}
	return out
}

func pkcs7Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return nil, ErrInvalidPayload
	}
	padLen := int(data[len(data)-1])
	if padLen <= 0 || padLen > aes.BlockSize {
		return nil, ErrInvalidPayload
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, ErrInvalidPayload
		}
	}
	return data[:len(data)-padLen], nil
}

// AES-ECB: детерминированный режим без IV, блоки шифруются независимо.
// В stdlib режима нет, прогоняем блоки вручную.
func ecbEncrypt(key, plain []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	padded := pkcs7Pad(plain)
	out := make([]byte, len(padded))
	for i := 0; i < len(padded); i += aes.BlockSize {
		block.Encrypt(out[i:i+aes.BlockSize], padded[i:i+aes.BlockSize])
	}
	return out, nil
}

func ecbDecrypt(key, ct []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	if len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return nil, ErrInvalidPayload
	}
	out := make([]byte, len(ct))
	for i := 0; i < len(ct); i += aes.BlockSize {
		block.Decrypt(out[i:i+aes.BlockSize], ct[i:i+aes.BlockSize])
	}
	return pkcs7Unpad(out)
}

func cbcEncrypt(key, iv, plain []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != aes.BlockSize {
		return nil, ErrInvalidPayload
	}
	padded := pkcs7Pad(plain)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)
	return out, nil
}

func cbcDecrypt(key, iv, ct []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != aes.BlockSize || len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return nil, ErrInvalidPayload
	}
	out := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ct)
	return pkcs7Unpad(out)
}

// DecryptFirst снимает Layer-1 и парсит JSON.
// Любая ошибка (base64, padding, UTF-8, JSON) схлопывается в ErrInvalidPayload:
// сканирующий клиент не должен узнать, на каком шаге он ошибся.
func (c *Crypto) DecryptFirst(payloadB64 string) (map[string]any, error) {
	const op = "location internal.service.handshake_service.DecryptFirst"

	encrypted, err := base64.StdEncoding.DecodeString(payloadB64)
	if err != nil {
		logrus.Debugf("%s: %v", op, err)
		return nil, ErrInvalidPayload
	}

	aesPlain, err := ecbDecrypt(c.keys.aes1Key, encrypted)
	if err != nil {
		logrus.Debugf("%s: %v", op, err)
		return nil, ErrInvalidPayload
	}

	x1 := xorCycle(aesPlain, c.keys.xor1Key)
	x2 := xorCycle(x1, c.keys.xor2Key)

	var obj map[string]any
	if err := json.Unmarshal(x2, &obj); err != nil {
		logrus.Debugf("%s: %v", op, err)
		return nil, ErrInvalidPayload
	}
	return obj, nil
}

// EncryptFirst сериализует obj и накладывает Layer-1.
func (c *Crypto) EncryptFirst(obj any) (string, error) {
	const op = "location internal.service.handshake_service.EncryptFirst"

	plain, err := json.Marshal(obj)
	if err != nil {
		logrus.Errorf("%s: %v", op, err)
		return "", ErrInvalidPayload
	}

	x1 := xorCycle(plain, c.keys.xor2Key)
	x2 := xorCycle(x1, c.keys.xor1Key)

	encrypted, err := ecbEncrypt(c.keys.aes1Key, x2)
	if err != nil {
		logrus.Errorf("%s: %v", op, err)
		return "", ErrInvalidPayload
	}
	return base64.StdEncoding.EncodeToString(encrypted), nil
}

// DecryptSecond снимает сессионный конверт (CBC + xor3), затем вложенный Layer-1.
func (c *Crypto) DecryptSecond(payloadB64 string, aes2Key, aes2Iv, xor3Key []byte) (map[string]any, error) {
	const op = "location internal.service.handshake_service.DecryptSecond"

	encrypted, err := base64.StdEncoding.DecodeString(payloadB64)
	if err != nil {
		logrus.Debugf("%s: %v", op, err)
		return nil, ErrInvalidPayload
	}

	step1, err := cbcDecrypt(aes2Key, aes2Iv, encrypted)
	if err != nil {
		logrus.Debugf("%s: %v", op, err)
		return nil, ErrInvalidPayload
	}

	step2 := xorCycle(step1, xor3Key)
	step3 := xorCycle(step2, c.keys.xor2Key)

	step4, err := ecbDecrypt(c.keys.aes1Key, step3)
	if err != nil {
		logrus.Debugf("%s: %v", op, err)
		return nil, ErrInvalidPayload
	}

	step5 := xorCycle(step4, c.keys.xor1Key)

	var obj map[string]any
	if err := json.Unmarshal(step5, &obj); err != nil {
		logrus.Debugf("%s: %v", op, err)
		return nil, ErrInvalidPayload
	}
	return obj, nil
}

// EncryptSecond — зеркало DecryptSecond: Layer-1 внутрь, сессионный конверт наружу.
func (c *Crypto) EncryptSecond(obj any, aes2Key, aes2Iv, xor3Key []byte) (string, error) {
	const op = "location internal.service.handshake_service.EncryptSecond"

	plain, err := json.Marshal(obj)
	if err != nil {
		logrus.Errorf("%s: %v", op, err)
		return "", ErrInvalidPayload
	}

	step1 := xorCycle(plain, c.keys.xor1Key)

	step2, err := ecbEncrypt(c.keys.aes1Key, step1)
	if err != nil {
		logrus.Errorf("%s: %v", op, err)
		return "", ErrInvalidPayload
	}

	step3 := xorCycle(step2, c.keys.xor2Key)
	step4 := xorCycle(step3, xor3Key)

	encrypted, err := cbcEncrypt(aes2Key, aes2Iv, step4)
	if err != nil {
		logrus.Errorf("%s: %v", op, err)
		return "", ErrInvalidPayload
	}
	return base64.StdEncoding.EncodeToString(encrypted), nil
}
