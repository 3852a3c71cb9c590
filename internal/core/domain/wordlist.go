package domain

import "strings"

// DefaultWordlist is the wordlist assigned to shops created without one.
var DefaultWordlist = []string{
	"albatross", "ant", "antelope", "armadillo", "badger", "bat", "bear",
	"beaver", "bee", "bison", "buffalo", "butterfly", "camel", "cat",
	"cheetah", "chicken", "cobra", "condor", "coyote", "crab", "crane",
	"crocodile", "crow", "deer", "dog", "dolphin", "donkey", "dove",
	"dragonfly", "duck", "eagle", "eel", "elephant", "falcon", "ferret",
	"flamingo", "fox", "frog", "gazelle", "giraffe", "goat", "goose",
	"gorilla", "hamster", "hawk", "hedgehog", "heron", "horse", "hyena",
	"iguana", "jaguar", "kangaroo", "koala", "lemur", "leopard", "lion",
	"lizard", "llama", "lobster", "lynx", "mole", "moose", "mouse", "mule",
	"narwhal", "newt", "octopus", "orca", "ostrich", "otter", "owl", "ox",
	"panda", "panther", "parrot", "pelican", "penguin", "pig", "pigeon",
	"porcupine", "rabbit", "raccoon", "raven", "salamander", "seal",
	"shark", "sheep", "sloth", "snail", "sparrow", "squid", "squirrel",
	"swan", "tiger", "toad", "turtle", "walrus", "weasel", "whale", "wolf",
	"wombat", "woodpecker", "yak", "zebra",
}

// DefaultWordlistText is DefaultWordlist in its stored newline form.
func DefaultWordlistText() string {
	return strings.Join(DefaultWordlist, "\n")
}
