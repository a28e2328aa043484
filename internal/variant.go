package internal

import "strings"

// BalloonKind identifies which app rendered a rich message payload.
type BalloonKind int

const (
	BalloonURL BalloonKind = iota
	BalloonMusic
	BalloonHandwriting
	BalloonApplePay
	BalloonFitness
	BalloonSlideshow
	// BalloonApplication covers any other extension; the bundle id is
	// carried alongside in Variant.AppID.
	BalloonApplication
)

// ReactionKind identifies a tapback reaction.
type ReactionKind int

const (
	ReactionLoved ReactionKind = iota
	ReactionLiked
	ReactionDisliked
	ReactionLaughed
	ReactionEmphasized
	ReactionQuestioned
)

func (r ReactionKind) String() string {
	switch r {
	case ReactionLoved:
		return "Loved"
	case ReactionLiked:
		return "Liked"
	case ReactionDisliked:
		return "Disliked"
	case ReactionLaughed:
		return "Laughed"
	case ReactionEmphasized:
		return "Emphasized"
	case ReactionQuestioned:
		return "Questioned"
	}
	return "Unknown"
}

// VariantKind is the broad semantic category of a message row.
type VariantKind int

const (
	// VariantNormal is a plain message.
	VariantNormal VariantKind = iota
	// VariantApp is a rich payload rendered by a messages extension.
	VariantApp
	// VariantSticker is a sticker overlayed on another message part.
	VariantSticker
	// VariantReaction is a tapback on another message part.
	VariantReaction
	// VariantUnknown covers association type codes we cannot classify.
	VariantUnknown
)

// Variant is the decoded semantic classification of a message. Only the
// fields relevant to Kind are populated.
type Variant struct {
	Kind VariantKind

	// Balloon and AppID are set for VariantApp.
	Balloon BalloonKind
	AppID   string

	// Part is the target sub-part index for VariantSticker and
	// VariantReaction.
	Part int

	// Added and Reaction are set for VariantReaction; Added is false when
	// the row records a reaction being removed.
	Added    bool
	Reaction ReactionKind

	// RawType is the unrecognized association type code for VariantUnknown.
	RawType int
}

func (v Variant) String() string {
	switch v.Kind {
	case VariantNormal:
		return "Normal"
	case VariantApp:
		switch v.Balloon {
		case BalloonURL:
			return "URL"
		case BalloonMusic:
			return "Music"
		case BalloonHandwriting:
			return "Handwriting"
		case BalloonApplePay:
			return "Apple Pay"
		case BalloonFitness:
			return "Fitness"
		case BalloonSlideshow:
			return "Slideshow"
		case BalloonApplication:
			return "App: " + v.AppID
		}
	case VariantSticker:
		return "Sticker"
	case VariantReaction:
		if v.Added {
			return v.Reaction.String()
		}
		return "Removed " + v.Reaction.String()
	}
	return "Unknown"
}

// reactionKinds maps the low three digits of a reaction type code. Codes
// 2000-2005 add a reaction, 3000-3005 remove one.
var reactionKinds = map[int]ReactionKind{
	0: ReactionLoved,
	1: ReactionLiked,
	2: ReactionDisliked,
	3: ReactionLaughed,
	4: ReactionEmphasized,
	5: ReactionQuestioned,
}

// parseBalloonBundleID extracts the effective extension id from the
// balloon_bundle_id column. First-party balloons store a bare bundle id;
// extension balloons store <container>:<instance>:<extension-id> and the
// third part is the one that matters.
func (m *Message) parseBalloonBundleID() (string, bool) {
	if m.BalloonBundleID == nil {
		return "", false
	}
	parts := strings.Split(*m.BalloonBundleID, ":")
	if len(parts) == 1 {
		return parts[0], true
	}
	if len(parts) >= 3 {
		return parts[2], true
	}
	return "", false
}

func (m *Message) appVariant(bundleID string) Variant {
	switch bundleID {
	case "com.apple.messages.URLBalloonProvider":
		if m.Text != nil && strings.HasPrefix(*m.Text, "https://music.apple") {
			return Variant{Kind: VariantApp, Balloon: BalloonMusic}
		}
		return Variant{Kind: VariantApp, Balloon: BalloonURL}
	case "com.apple.Handwriting.HandwritingProvider":
		return Variant{Kind: VariantApp, Balloon: BalloonHandwriting}
	case "com.apple.PassbookUIService.PeerPaymentMessagesExtension":
		return Variant{Kind: VariantApp, Balloon: BalloonApplePay}
	case "com.apple.ActivityMessagesApp.MessagesExtension":
		return Variant{Kind: VariantApp, Balloon: BalloonFitness}
	case "com.apple.mobileslideshow.PhotosMessagesApp":
		return Variant{Kind: VariantApp, Balloon: BalloonSlideshow}
	}
	return Variant{Kind: VariantApp, Balloon: BalloonApplication, AppID: bundleID}
}

// Variant classifies the message from its association type code plus the
// balloon bundle id.
func (m *Message) Variant() Variant {
	switch code := m.AssociatedMessageType; code {
	// Standard messages, with either text or a rich payload
	case 0, 2, 3:
		if bundleID, ok := m.parseBalloonBundleID(); ok {
			return m.appVariant(bundleID)
		}
		return Variant{Kind: VariantNormal}

	// Stickers overlayed on another message's part
	case 1000:
		return Variant{Kind: VariantSticker, Part: m.reactionIndex()}

	case 2000, 2001, 2002, 2003, 2004, 2005:
		return Variant{
			Kind:     VariantReaction,
			Part:     m.reactionIndex(),
			Added:    true,
			Reaction: reactionKinds[code-2000],
		}
	case 3000, 3001, 3002, 3003, 3004, 3005:
		return Variant{
			Kind:     VariantReaction,
			Part:     m.reactionIndex(),
			Added:    false,
			Reaction: reactionKinds[code-3000],
		}

	default:
		return Variant{Kind: VariantUnknown, RawType: code}
	}
}

// BubbleEffect is an animation applied to a single message bubble.
type BubbleEffect int

const (
	BubbleGentle BubbleEffect = iota
	BubbleSlam
	BubbleInvisibleInk
	BubbleLoud
)

// ScreenEffect is a full-screen animation played on receipt.
type ScreenEffect int

const (
	ScreenConfetti ScreenEffect = iota
	ScreenEcho
	ScreenFireworks
	ScreenBalloons
	ScreenHeart
	ScreenLasers
	ScreenShootingStar
	ScreenSparkles
	ScreenSpotlight
)

// ExpressiveKind distinguishes the classes of send effects.
type ExpressiveKind int

const (
	ExpressiveNone ExpressiveKind = iota
	ExpressiveBubble
	ExpressiveScreen
	ExpressiveUnknown
)

// Expressive is a message's visual send effect, decoded from the
// expressive_send_style_id column.
type Expressive struct {
	Kind   ExpressiveKind
	Bubble BubbleEffect
	Screen ScreenEffect

	// RawStyle is the unrecognized style id for ExpressiveUnknown.
	RawStyle string
}

var bubbleEffects = map[string]BubbleEffect{
	"com.apple.MobileSMS.expressivesend.gentle":       BubbleGentle,
	"com.apple.MobileSMS.expressivesend.impact":       BubbleSlam,
	"com.apple.MobileSMS.expressivesend.invisibleink": BubbleInvisibleInk,
	"com.apple.MobileSMS.expressivesend.loud":         BubbleLoud,
}

var screenEffects = map[string]ScreenEffect{
	"com.apple.messages.effect.CKConfettiEffect":      ScreenConfetti,
	"com.apple.messages.effect.CKEchoEffect":          ScreenEcho,
	"com.apple.messages.effect.CKFireworksEffect":     ScreenFireworks,
	"com.apple.messages.effect.CKHappyBirthdayEffect": ScreenBalloons,
	"com.apple.messages.effect.CKHeartEffect":         ScreenHeart,
	"com.apple.messages.effect.CKLasersEffect":        ScreenLasers,
	"com.apple.messages.effect.CKShootingStarEffect":  ScreenShootingStar,
	"com.apple.messages.effect.CKSparklesEffect":      ScreenSparkles,
	"com.apple.messages.effect.CKSpotlightEffect":     ScreenSpotlight,
}

// Expressive decodes the message's send effect.
func (m *Message) Expressive() Expressive {
	if m.ExpressiveSendStyleID == nil {
		return Expressive{Kind: ExpressiveNone}
	}
	style := *m.ExpressiveSendStyleID
	if effect, ok := bubbleEffects[style]; ok {
		return Expressive{Kind: ExpressiveBubble, Bubble: effect}
	}
	if effect, ok := screenEffects[style]; ok {
		return Expressive{Kind: ExpressiveScreen, Screen: effect}
	}
	return Expressive{Kind: ExpressiveUnknown, RawStyle: style}
}

func (e Expressive) String() string {
	switch e.Kind {
	case ExpressiveNone:
		return ""
	case ExpressiveBubble:
		switch e.Bubble {
		case BubbleGentle:
			return "Gentle"
		case BubbleSlam:
			return "Slam"
		case BubbleInvisibleInk:
			return "Invisible Ink"
		case BubbleLoud:
			return "Loud"
		}
	case ExpressiveScreen:
		switch e.Screen {
		case ScreenConfetti:
			return "Confetti"
		case ScreenEcho:
			return "Echo"
		case ScreenFireworks:
			return "Fireworks"
		case ScreenBalloons:
			return "Balloons"
		case ScreenHeart:
			return "Heart"
		case ScreenLasers:
			return "Lasers"
		case ScreenShootingStar:
			return "Shooting Star"
		case ScreenSparkles:
			return "Sparkles"
		case ScreenSpotlight:
			return "Spotlight"
		}
	}
	return "Unknown: " + e.RawStyle
}
