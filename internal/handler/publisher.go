package handler

import (
	"github.com/nodewalk/nodewalk-server/internal/game"
	"github.com/nodewalk/nodewalk-server/internal/ws"
)

// clientPublisher delivers engine output to one ws client: one-shot
// feedback events first, then the full snapshot.
type clientPublisher struct {
	client *ws.Client
}

type effectPayload struct {
	NodeID string `json:"node_id,omitempty"`
	Tier   string `json:"tier,omitempty"`
}

func (p *clientPublisher) Publish(snap game.Snapshot, effects []game.Effect) {
	for _, eff := range effects {
		msg, err := ws.NewMessage(effectType(eff.Kind), effectPayload{
			NodeID: eff.NodeID,
			Tier:   tierLabel(eff),
		})
		if err != nil {
			continue
		}
		p.client.SendMessage(msg)
	}

	msg, err := ws.NewMessage(ws.TypeSnapshot, snap)
	if err != nil {
		return
	}
	p.client.SendMessage(msg)
}

func effectType(kind game.EffectKind) string {
	switch kind {
	case game.EffectNodeDiscovered:
		return ws.TypeNodeDiscovered
	case game.EffectNodeCaptured:
		return ws.TypeNodeCaptured
	case game.EffectEvacStarted:
		return ws.TypeEvacStarted
	default:
		return ws.TypeError
	}
}

func tierLabel(eff game.Effect) string {
	if eff.Kind == game.EffectEvacStarted {
		return ""
	}
	return eff.Tier.String()
}
