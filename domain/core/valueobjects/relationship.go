package valueobjects

import (
	"fmt"
	"strings"
)

// RelationshipStage describes where a connection currently stands
type RelationshipStage string

const (
	StageTalking       RelationshipStage = "talking"
	StageDating        RelationshipStage = "dating"
	StageSituationship RelationshipStage = "situationship"
	StageExclusive     RelationshipStage = "exclusive"
	StageEngaged       RelationshipStage = "engaged"
	StageMarried       RelationshipStage = "married"
	StageFriendship    RelationshipStage = "friendship"
	StageComplicated   RelationshipStage = "complicated"
	StageEx            RelationshipStage = "ex"
)

var relationshipStages = []RelationshipStage{
	StageTalking, StageDating, StageSituationship, StageExclusive, StageEngaged,
	StageMarried, StageFriendship, StageComplicated, StageEx,
}

// RelationshipStages returns every known stage in display order
func RelationshipStages() []RelationshipStage {
	out := make([]RelationshipStage, len(relationshipStages))
	copy(out, relationshipStages)
	return out
}

// ParseRelationshipStage accepts the stage name in any case
func ParseRelationshipStage(s string) (RelationshipStage, error) {
	candidate := RelationshipStage(strings.ToLower(strings.TrimSpace(s)))
	for _, stage := range relationshipStages {
		if stage == candidate {
			return stage, nil
		}
	}
	return "", fmt.Errorf("unknown relationship stage %q", s)
}

// ZodiacSign is an optional astrological sign. The empty value means unset.
type ZodiacSign string

const (
	ZodiacAries       ZodiacSign = "aries"
	ZodiacTaurus      ZodiacSign = "taurus"
	ZodiacGemini      ZodiacSign = "gemini"
	ZodiacCancer      ZodiacSign = "cancer"
	ZodiacLeo         ZodiacSign = "leo"
	ZodiacVirgo       ZodiacSign = "virgo"
	ZodiacLibra       ZodiacSign = "libra"
	ZodiacScorpio     ZodiacSign = "scorpio"
	ZodiacSagittarius ZodiacSign = "sagittarius"
	ZodiacCapricorn   ZodiacSign = "capricorn"
	ZodiacAquarius    ZodiacSign = "aquarius"
	ZodiacPisces      ZodiacSign = "pisces"
)

var zodiacSigns = []ZodiacSign{
	ZodiacAries, ZodiacTaurus, ZodiacGemini, ZodiacCancer, ZodiacLeo, ZodiacVirgo,
	ZodiacLibra, ZodiacScorpio, ZodiacSagittarius, ZodiacCapricorn, ZodiacAquarius, ZodiacPisces,
}

// ParseZodiacSign returns the empty sign for blank input
func ParseZodiacSign(s string) (ZodiacSign, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	for _, sign := range zodiacSigns {
		if string(sign) == s {
			return sign, nil
		}
	}
	return "", fmt.Errorf("unknown zodiac sign %q", s)
}

// LoveLanguage is one of the five love languages. The empty value means unset.
type LoveLanguage string

const (
	LoveWordsOfAffirmation LoveLanguage = "words_of_affirmation"
	LoveQualityTime        LoveLanguage = "quality_time"
	LoveReceivingGifts     LoveLanguage = "receiving_gifts"
	LoveActsOfService      LoveLanguage = "acts_of_service"
	LovePhysicalTouch      LoveLanguage = "physical_touch"
)

var loveLanguages = []LoveLanguage{
	LoveWordsOfAffirmation, LoveQualityTime, LoveReceivingGifts, LoveActsOfService, LovePhysicalTouch,
}

// ParseLoveLanguage accepts "quality time", "quality-time" and "quality_time"
func ParseLoveLanguage(s string) (LoveLanguage, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	for _, l := range loveLanguages {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown love language %q", s)
}

// Label renders the love language for people, e.g. "quality time"
func (l LoveLanguage) Label() string {
	return strings.ReplaceAll(string(l), "_", " ")
}
