// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package builtin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AccelByte/extend-tag-engine/pkg/action"
	"github.com/AccelByte/extend-tag-engine/pkg/arsenal"
	"github.com/AccelByte/extend-tag-engine/pkg/clock"
	"github.com/AccelByte/extend-tag-engine/pkg/game"
	"github.com/AccelByte/extend-tag-engine/pkg/rule"
	"github.com/AccelByte/extend-tag-engine/pkg/store/storetest"
)

// mockItemGranter records item grants
type mockItemGranter struct {
	calls     int
	namespace string
	userID    string
	itemID    string
	quantity  int32
	err       error
}

func (m *mockItemGranter) GrantItem(ctx context.Context, namespace, userID, itemID string, quantity int32) error {
	m.calls++
	m.namespace, m.userID, m.itemID, m.quantity = namespace, userID, itemID, quantity
	return m.err
}

// mockStatUpdater sums increments per stat code
type mockStatUpdater struct {
	totals map[string]float64
	err    error
}

func (m *mockStatUpdater) IncrementStat(ctx context.Context, userID, statCode string, inc float64) error {
	if m.err != nil {
		return m.err
	}
	if m.totals == nil {
		m.totals = map[string]float64{}
	}
	m.totals[userID+"/"+statCode] += inc
	return nil
}

func trigger(gameID string) *rule.Trigger {
	t := rule.NewTrigger("game_winner", "alice", "won", 10)
	t.GameID = gameID
	return t
}

func TestGrantItemAction(t *testing.T) {
	granter := &mockItemGranter{}
	act, err := NewGrantItemAction(action.ActionConfig{
		ID:         "winner_skin",
		Type:       GrantItemActionID,
		Enabled:    true,
		Parameters: map[string]interface{}{"item_id": "skin-gold", "quantity": float64(2)},
	}, granter, "tagns")
	if err != nil {
		t.Fatalf("NewGrantItemAction() error = %v", err)
	}

	if err := act.Execute(context.Background(), trigger("g1"), nil); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if granter.calls != 1 || granter.namespace != "tagns" || granter.userID != "alice" || granter.itemID != "skin-gold" || granter.quantity != 2 {
		t.Errorf("unexpected grant %+v", granter)
	}
	if err := act.Rollback(context.Background(), trigger("g1"), nil); !errors.Is(err, action.ErrRollbackNotSupported) {
		t.Errorf("expected ErrRollbackNotSupported, got %v", err)
	}

	granter.err = errors.New("platform down")
	if err := act.Execute(context.Background(), trigger("g1"), nil); err == nil {
		t.Error("expected platform error to surface")
	}
}

func TestGrantItemAction_DryRunWithoutGranter(t *testing.T) {
	act, err := NewGrantItemAction(action.ActionConfig{
		ID:         "winner_skin",
		Parameters: map[string]interface{}{"item_id": "skin-gold"},
	}, nil, "tagns")
	if err != nil {
		t.Fatalf("NewGrantItemAction() error = %v", err)
	}
	if err := act.Execute(context.Background(), trigger("g1"), nil); err != nil {
		t.Errorf("expected dry run to succeed, got %v", err)
	}
}

func TestUpdateStatAction_ExecuteAndRollback(t *testing.T) {
	updater := &mockStatUpdater{}
	act, err := NewUpdateStatAction(action.ActionConfig{
		ID:         "record_win",
		Parameters: map[string]interface{}{"stat_code": "tag-wins", "increment": 1},
	}, updater)
	if err != nil {
		t.Fatalf("NewUpdateStatAction() error = %v", err)
	}

	ctx := context.Background()
	if err := act.Execute(ctx, trigger("g1"), nil); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := updater.totals["alice/tag-wins"]; got != 1 {
		t.Errorf("expected stat 1 after execute, got %v", got)
	}
	if err := act.Rollback(ctx, trigger("g1"), nil); err != nil {
		t.Fatalf("Rollback() error = %v", err)
	}
	if got := updater.totals["alice/tag-wins"]; got != 0 {
		t.Errorf("expected stat 0 after rollback, got %v", got)
	}
}

func TestConstructors_RejectInvalidParameters(t *testing.T) {
	tests := []struct {
		name   string
		create func() error
	}{
		{name: "grant without item", create: func() error {
			_, err := NewGrantItemAction(action.ActionConfig{}, nil, "ns")
			return err
		}},
		{name: "grant with zero quantity", create: func() error {
			_, err := NewGrantItemAction(action.ActionConfig{Parameters: map[string]interface{}{"item_id": "x", "quantity": 0}}, nil, "ns")
			return err
		}},
		{name: "stat without code", create: func() error {
			_, err := NewUpdateStatAction(action.ActionConfig{}, nil)
			return err
		}},
		{name: "credit unknown item", create: func() error {
			_, err := NewCreditArsenalAction(action.ActionConfig{Parameters: map[string]interface{}{"item": "bazooka"}}, nil)
			return err
		}},
		{name: "credit unknown scope", create: func() error {
			_, err := NewCreditArsenalAction(action.ActionConfig{Parameters: map[string]interface{}{"item": "radar", "scope": "world"}}, nil)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.create(); !errors.Is(err, action.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestCreditArsenalAction(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	s, _ := storetest.New(t)
	storetest.SeedGame(t, s, "g1", game.StatusActive, now, storetest.Player{ID: "alice"}, storetest.Player{ID: "bob"})
	storetest.SeedGame(t, s, "g2", game.StatusWaiting, now, storetest.Player{ID: "alice"})
	storetest.SeedGame(t, s, "g3", game.StatusCompleted, now, storetest.Player{ID: "alice"})
	ledger := arsenal.NewLedger(s, clock.NewFake(now), game.DefaultTuning())

	tests := []struct {
		name    string
		params  map[string]interface{}
		gameID  string
		want    map[string]int
		wantErr error
	}{
		{
			name:   "game scope credits the trigger's game",
			params: map[string]interface{}{"item": "radar"},
			gameID: "g1",
			want:   map[string]int{"g1": 1, "g2": 0, "g3": 0},
		},
		{
			name:   "all scope skips completed games",
			params: map[string]interface{}{"item": "radar", "quantity": 2, "scope": "all"},
			want:   map[string]int{"g1": 3, "g2": 2, "g3": 0},
		},
		{
			name:    "game scope needs a game",
			params:  map[string]interface{}{"item": "radar"},
			wantErr: action.ErrInvalidConfig,
			want:    map[string]int{"g1": 3, "g2": 2, "g3": 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			act, err := NewCreditArsenalAction(action.ActionConfig{ID: "bounty", Parameters: tt.params}, ledger)
			if err != nil {
				t.Fatalf("NewCreditArsenalAction() error = %v", err)
			}
			err = act.Execute(context.Background(), trigger(tt.gameID), nil)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			for gameID, radars := range tt.want {
				if got := storetest.Reload(t, s, gameID).Players["alice"].Arsenal.Radars; got != radars {
					t.Errorf("game %s: expected %d radars, got %d", gameID, radars, got)
				}
			}
		})
	}
}

func TestRegisterBuiltinActions(t *testing.T) {
	f := action.NewFactory()
	RegisterBuiltinActions(f, &Dependencies{Namespace: "tagns"})

	types := f.Types()
	want := []string{CreditArsenalActionID, GrantItemActionID, UpdateStatActionID}
	if len(types) != len(want) {
		t.Fatalf("expected %v, got %v", want, types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("Types()[%d] = %s, want %s", i, types[i], want[i])
		}
	}

	act, err := f.CreateAction(action.ActionConfig{ID: "x", Type: CreditArsenalActionID, Enabled: true, Parameters: map[string]interface{}{"item": "basic_tag"}})
	if err != nil || act == nil {
		t.Fatalf("CreateAction() = %v, %v", act, err)
	}
	if err := act.Execute(context.Background(), trigger("g1"), nil); !errors.Is(err, action.ErrMissingDependency) {
		t.Errorf("expected ErrMissingDependency without a ledger, got %v", err)
	}

	broken, err := f.CreateAction(action.ActionConfig{ID: "y", Type: GrantItemActionID, Enabled: true})
	if broken != nil || !errors.Is(err, action.ErrInvalidConfig) {
		t.Errorf("expected nil action and ErrInvalidConfig, got %v, %v", broken, err)
	}
}
