package service

import (
	"crypto/rand"
	"math/big"
)

const (
	shortIDLength   = 8
	accountIDLength = 8
	alphanumeric    = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	digits          = "0123456789"
)

// GenerateShortID 8 независимых равновероятных символов [A-Za-z0-9]
func GenerateShortID() (string, error) {
	return randomString(shortIDLength, alphanumeric)
}

// GenerateAccountID 8 случайных цифр
func GenerateAccountID() (string, error) {
	return randomString(accountIDLength, digits)
}

func randomString(length int, charset string) (string, error) {
	result := make([]byte, length)
	n := big.NewInt(int64(len(charset)))
	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, n)
		if err != nil {
			return "", err
		}
		result[i] = charset[num.Int64()]
	}
	return string(result), nil
}
