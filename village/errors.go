package village

import "errors"

var (
	ErrQuestNotActive   = errors.New("quest is not active")
	ErrUnknownShop      = errors.New("unknown shop")
	ErrUnknownGift      = errors.New("unknown gift")
	ErrUnknownCharacter = errors.New("unknown character")
	ErrNotInShop        = errors.New("player is not in a shop")
	ErrGiftNotInShop    = errors.New("gift is not sold in this shop")
	ErrGiftNotInBag     = errors.New("gift is not in the shopping bag")
	ErrCharacterTooFar  = errors.New("character is out of reach")
	ErrShopTooFar       = errors.New("shop is out of reach")
)

type InvalidSeedError string

func (e InvalidSeedError) Error() string { return "invalid seed: " + string(e) }

func ErrInvalidSeed(msg string) error { return InvalidSeedError(msg) }
