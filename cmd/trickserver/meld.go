package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/trickserver/internal/deck"
	"github.com/lox/trickserver/internal/meld"
)

// MeldCmd prices a pinochle hand under the default point table
type MeldCmd struct {
	Trump string   `kong:"short='t',required,help='Trump suit (C, D, S, H)'"`
	Cards []string `kong:"arg,help='Cards such as \"AH 10H KH QH JH 9H\"'"`
}

func (c *MeldCmd) Run() error {
	trump, err := deck.ParseSuit(c.Trump)
	if err != nil {
		return err
	}
	hand, err := deck.ParseCards(strings.Join(c.Cards, " "))
	if err != nil {
		return err
	}
	for _, card := range hand {
		if !deck.Contains(deck.Pinochle.Cards(), card) {
			return fmt.Errorf("%s is not in a pinochle deck", card)
		}
	}
	order := deck.Pinochle.Ordering()
	order.Sort(hand)

	counter := meld.NewCounter(deck.Pinochle, meld.DefaultPoints)
	counts := counter.Count(hand, trump)

	fmt.Println(titleStyle.Render(fmt.Sprintf("%d cards, %s trump", len(hand), trump)))
	var pretty []string
	for _, card := range hand {
		pretty = append(pretty, card.Pretty())
	}
	fmt.Println(strings.Join(pretty, " "))

	var rows [][]string
	for _, item := range counter.Itemize(counts, trump) {
		rows = append(rows, []string{item.Name, strconv.Itoa(item.Count), strconv.Itoa(item.Points)})
	}
	rows = append(rows, []string{"Total", "", strconv.Itoa(counts.Total)})
	fmt.Println(newTable([]string{"Meld", "Count", "Points"}, rows, len(rows)-1).String())
	return nil
}
