package view

import (
	"errors"
	"time"
)

type State string

const (
	StateHome   State = "HOME"
	StateDrinks State = "DRINKS"
	StateCart   State = "CART"
)

type Event string

const (
	EventOpenDrinks Event = "open_drinks"
	EventContinue   Event = "continue"
	EventClose      Event = "close"
	EventHome       Event = "home"
)

var (
	ErrClosing           = errors.New("view is closing")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrUnknownEvent      = errors.New("unknown event")
)

// 閉じアニメーション中の遷移
type Pending struct {
	To State     `json:"to"`
	At time.Time `json:"at"`
}

// Routerは HOME / DRINKS / CART の画面遷移。ゼロ値は HOME
type Router struct {
	State   State    `json:"state"`
	Pending *Pending `json:"pending,omitempty"`
}

func (r *Router) current() State {
	if r.State == "" {
		return StateHome
	}
	return r.State
}

// Settleは期限が来た保留遷移を確定する。確定したらtrue
func (r *Router) Settle(now time.Time) bool {
	if r.Pending == nil || now.Before(r.Pending.At) {
		return false
	}
	r.State = r.Pending.To
	r.Pending = nil
	return true
}

func (r *Router) Closing() bool {
	return r.Pending != nil
}

// Fireはイベントを適用する。
// close/home は delay 経過後に確定し、それまでの操作は ErrClosing で弾く
func (r *Router) Fire(ev Event, itemCount int, now time.Time, delay time.Duration) error {
	r.Settle(now)
	if r.Pending != nil {
		return ErrClosing
	}

	from := r.current()
	var to State
	exit := false

	switch ev {
	case EventOpenDrinks:
		if from != StateHome {
			return ErrInvalidTransition
		}
		if itemCount <= 0 {
			return ErrEmptyCart
		}
		to = StateDrinks
	case EventContinue:
		if from != StateDrinks {
			return ErrInvalidTransition
		}
		to = StateCart
	case EventClose:
		switch from {
		case StateDrinks:
			to = StateHome
		case StateCart:
			to = StateDrinks
		default:
			return ErrInvalidTransition
		}
		exit = true
	case EventHome:
		if from != StateCart {
			return ErrInvalidTransition
		}
		to = StateHome
		exit = true
	default:
		return ErrUnknownEvent
	}

	if exit && delay > 0 {
		r.Pending = &Pending{To: to, At: now.Add(delay)}
		return nil
	}
	r.State = to
	return nil
}
