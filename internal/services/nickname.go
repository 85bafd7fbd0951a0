package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"accounts_backend/internal/repositories"

	"github.com/google/uuid"
)

var (
	nicknameAdjectives = []string{
		"clever", "swift", "brave", "quiet", "lucky", "bright", "calm", "bold",
		"eager", "gentle", "happy", "jolly", "keen", "mighty", "noble", "witty",
	}
	nicknameAnimals = []string{
		"panda", "falcon", "otter", "tiger", "koala", "lynx", "badger", "heron",
		"fox", "wolf", "raven", "beaver", "dolphin", "owl", "moose", "gecko",
	}
)

const nicknameAttempts = 10

// generateNickname собирает ник вида adjective_animal_123
func generateNickname() string {
	adj := nicknameAdjectives[rand.IntN(len(nicknameAdjectives))]
	animal := nicknameAnimals[rand.IntN(len(nicknameAnimals))]
	return fmt.Sprintf("%s_%s_%d", adj, animal, rand.IntN(1000))
}

// uniqueNickname перебирает случайные ники, пока не найдет свободный
func uniqueNickname(ctx context.Context, repo repositories.UserRepository) (string, error) {
	for i := 0; i < nicknameAttempts; i++ {
		candidate := generateNickname()
		_, err := repo.FindByNickname(ctx, candidate)
		if errors.Is(err, repositories.ErrUserNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
	}
	// пространство имен почти исчерпано, добавляем случайный суффикс
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return generateNickname() + "_" + suffix, nil
}
