package decoder

import (
	"github.com/fcitx/libime-sub001/history"
	"github.com/fcitx/libime-sub001/lm"
	"github.com/fcitx/libime-sub001/vocab"
)

// UserModel wraps a static language model with the online history
// bigram, per spec.md §4.9: score is half the static model's score plus
// the history model's bigram estimate. It implements lm.Model so
// Decoder.Decode can use it exactly like a plain model, just with a
// richer state that additionally remembers the previous surface word
// (the static model's own state says nothing about surface text, only
// about n-gram context, so history lookups need their own thread of
// state alongside it).
type UserModel struct {
	base lm.Model
	hist *history.Model

	states []userState
	index  map[userState]lm.StateId
}

type userState struct {
	base lm.StateId
	prev string
}

// NewUserModel constructs a UserModel over base, mixing in hist.
func NewUserModel(base lm.Model, hist *history.Model) *UserModel {
	return &UserModel{base: base, hist: hist, index: map[userState]lm.StateId{}}
}

func (u *UserModel) intern(s userState) lm.StateId {
	if id, ok := u.index[s]; ok {
		return id
	}
	id := lm.StateId(len(u.states))
	u.states = append(u.states, s)
	u.index[s] = id
	return id
}

func (u *UserModel) Start() lm.StateId {
	return u.intern(userState{base: u.base.Start()})
}

func (u *UserModel) NextI(p lm.StateId, x vocab.Word) (lm.StateId, lm.Weight) {
	cur := u.states[p]
	v, _, _, _, _ := u.base.Vocab()
	word := v.StringOf(x)

	baseNext, baseWeight := u.base.NextI(cur.base, x)
	mixed := 0.5*float64(baseWeight) + u.hist.Score(cur.prev, word)
	return u.intern(userState{base: baseNext, prev: word}), lm.Weight(mixed)
}

func (u *UserModel) NextS(p lm.StateId, s string) (lm.StateId, lm.Weight) {
	v, _, _, _, _ := u.base.Vocab()
	return u.NextI(p, v.IdOf(s))
}

func (u *UserModel) Final(p lm.StateId) lm.Weight {
	cur := u.states[p]
	return lm.Weight(0.5 * float64(u.base.Final(cur.base)))
}

func (u *UserModel) Vocab() (v *vocab.Vocab, bos, eos string, bosId, eosId vocab.Word) {
	return u.base.Vocab()
}
