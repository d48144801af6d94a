package protocol

// Packet is one outbound message with its explicit recipients
type Packet struct {
	Message Message
	To      []string
}

// Packets is the ordered outbound batch returned by every handler
type Packets []Packet

// Add appends msg addressed to the given participants
func (p *Packets) Add(msg Message, to ...string) {
	if len(to) == 0 {
		return
	}
	*p = append(*p, Packet{Message: msg, To: to})
}

// Append appends another batch in order
func (p *Packets) Append(other Packets) {
	*p = append(*p, other...)
}

// For returns the messages addressed to participant, in order
func (p Packets) For(participant string) []Message {
	var out []Message
	for _, pkt := range p {
		for _, id := range pkt.To {
			if id == participant {
				out = append(out, pkt.Message)
				break
			}
		}
	}
	return out
}

// OfType returns the packets carrying messages of type t
func (p Packets) OfType(t MessageType) Packets {
	var out Packets
	for _, pkt := range p {
		if pkt.Message.MessageType() == t {
			out = append(out, pkt)
		}
	}
	return out
}
