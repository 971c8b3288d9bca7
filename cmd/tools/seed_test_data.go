package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"team-chat/auth"
	"team-chat/domain"
	"team-chat/repositories"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// Comptes de démonstration pour le développement local
var demoUsers = []struct {
	username string
	email    string
}{
	{"alice", "alice@example.com"},
	{"bob", "bob@example.com"},
	{"carol", "carol@example.com"},
}

const demoPassword = "ComplexPass123!"

func main() {
	badgerPath := flag.String("badger", "./data/badger", "Path to badger DB")
	blugePath := flag.String("bluge", "./data/bluge", "Path to bluge index")
	flag.Parse()

	fmt.Println("🚀 Team-Chat : Génération des données de test...")

	db, err := badger.Open(badger.DefaultOptions(*badgerPath).WithLoggingLevel(badger.WARNING))
	if err != nil {
		panic(fmt.Sprintf("Impossible d'ouvrir Badger : %v", err))
	}
	defer db.Close()

	writer, err := bluge.OpenWriter(bluge.DefaultConfig(*blugePath))
	if err != nil {
		panic(fmt.Sprintf("Impossible d'ouvrir l'index : %v", err))
	}
	defer writer.Close()

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	users := repositories.NewUserRepository(db, writer, logger)
	teams := repositories.NewTeamRepository(db, logger)

	hash, err := auth.HashPassword(demoPassword)
	if err != nil {
		panic(err)
	}

	created := make([]domain.User, 0, len(demoUsers))
	for _, demo := range demoUsers {
		user := domain.User{
			ID:           uuid.New(),
			Username:     demo.username,
			Email:        demo.email,
			PasswordHash: hash,
			CreatedAt:    time.Now().UTC(),
		}
		if err := users.CreateUser(ctx, user); err != nil {
			// Relances possibles sur une base déjà peuplée
			fmt.Printf("⚠️  %s : %v\n", demo.email, err)
			continue
		}
		created = append(created, user)
		fmt.Printf("✅ Compte %s créé (mot de passe : %s)\n", demo.email, demoPassword)
	}

	if len(created) == 0 {
		fmt.Println("\nRien à faire, la base semble déjà peuplée.")
		return
	}

	// Une équipe de démonstration appartenant au premier compte
	owner := created[0]
	now := time.Now().UTC()
	team := domain.Team{ID: uuid.New(), Name: "demo", AdminID: owner.ID, CreatedAt: now}
	general := domain.Channel{ID: uuid.New(), TeamID: team.ID, Name: "general"}
	if err := teams.CreateTeam(ctx, team, domain.TeamMember{
		UserID:   owner.ID,
		TeamID:   team.ID,
		Admin:    true,
		JoinedAt: now,
	}, general); err != nil {
		panic(err)
	}
	for _, member := range created[1:] {
		if err := teams.AddMember(ctx, domain.TeamMember{
			UserID:   member.ID,
			TeamID:   team.ID,
			JoinedAt: now,
		}); err != nil {
			panic(err)
		}
	}

	fmt.Printf("\n✅ Prêt ! Équipe %q avec %d membres.\n", team.Name, len(created))
}
