package advice

import (
	"fmt"
	"math"

	"kindra/domain/core/entities"
	"kindra/domain/core/valueobjects"
)

// recentWindow is how many of the latest moments count as "recent"
const recentWindow = 10

var loveLanguageTips = map[valueobjects.LoveLanguage]string{
	valueobjects.LoveWordsOfAffirmation: "say what you appreciate out loud and be specific about it",
	valueobjects.LoveQualityTime:        "protect undistracted time together, phones away",
	valueobjects.LoveReceivingGifts:     "small thoughtful gifts that show you were paying attention go a long way",
	valueobjects.LoveActsOfService:      "take something off their plate without being asked",
	valueobjects.LovePhysicalTouch:      "make room for casual affection, a hug or a hand held in passing",
}

// LoveLanguageTip returns the advice line for a love language
func LoveLanguageTip(l valueobjects.LoveLanguage) (string, bool) {
	tip, ok := loveLanguageTips[l]
	return tip, ok
}

func balance(ms []entities.MomentSnapshot) (positive, negative int) {
	for _, m := range ms {
		switch valueobjects.ClassifyEmoji(m.Emoji) {
		case valueobjects.PolarityPositive:
			positive++
		case valueobjects.PolarityNegative:
			negative++
		}
	}
	return positive, negative
}

func recent(ms []entities.MomentSnapshot) []entities.MomentSnapshot {
	if len(ms) <= recentWindow {
		return ms
	}
	return ms[len(ms)-recentWindow:]
}

func countWhere(ms []entities.MomentSnapshot, pred func(entities.MomentSnapshot) bool) int {
	n := 0
	for _, m := range ms {
		if pred(m) {
			n++
		}
	}
	return n
}

func isConversation(m entities.MomentSnapshot) bool { return valueobjects.HasConversationTag(m.Tags) }
func isConflict(m entities.MomentSnapshot) bool     { return valueobjects.IsConflictEmoji(m.Emoji) }
func isIntimate(m entities.MomentSnapshot) bool     { return m.IsIntimate }

func describeBalance(positive, negative int) string {
	switch {
	case positive > negative:
		return fmt.Sprintf("leaning positive (%d good moments against %d hard ones)", positive, negative)
	case negative > positive:
		return fmt.Sprintf("leaning difficult (%d hard moments against %d good ones)", negative, positive)
	default:
		return "evenly balanced between good and hard moments"
	}
}

func respondCommunication(r *request) string {
	if c, ok := r.mentioned(); ok {
		ms := r.momentsWith(c.ID)
		talks := countWhere(ms, isConversation)
		if talks == 0 {
			return fmt.Sprintf("You haven't tagged any conversations with %s yet. Start small: ask %s one open question "+
				"a day and really listen to the answer. Tag those talks so you can see how they shape your moments together.",
				c.Name, c.Name)
		}
		pos, neg := balance(recent(ms))
		return fmt.Sprintf("You've logged %d conversation moments with %s, and your recent moments are %s. "+
			"Build on what already works: pick a calm time, lead with how you feel rather than what %s did, "+
			"and reflect back what you hear before responding.",
			talks, c.Name, describeBalance(pos, neg), c.Name)
	}

	talks := countWhere(r.moments, isConversation)
	return fmt.Sprintf("Good communication is a habit more than a talent. You've tagged %d conversation moments so far. "+
		"Try a weekly check-in where each person shares one thing that felt good and one thing they need, "+
		"and use \"I feel\" statements when things get tense.", talks)
}

func respondDistance(r *request) string {
	if c, ok := r.mentioned(); ok {
		ms := r.momentsWith(c.ID)
		if len(ms) == 0 {
			return fmt.Sprintf("You haven't logged any moments with %s yet, which can make distance feel bigger than it is. "+
				"Reach out with something low-pressure, a memory or a quick question, and see how it lands.", c.Name)
		}
		days := int(math.Floor(r.now.Sub(ms[len(ms)-1].CreatedAt).Hours() / 24))
		return fmt.Sprintf("Your last logged moment with %s was %d days ago. Distance often grows quietly, "+
			"so name it gently: tell %s you miss the closeness and suggest one specific plan to reconnect.",
			c.Name, max(days, 0), c.Name)
	}
	return "Feeling distant usually means shared time or shared attention has slipped. " +
		"Plan one intentional activity this week, share something small about your day every day, " +
		"and talk openly about what closeness looks like for each of you."
}

func respondConflict(r *request) string {
	if c, ok := r.mentioned(); ok {
		ms := r.momentsWith(c.ID)
		conflicts := countWhere(ms, isConflict)
		resolved := countWhere(ms, func(m entities.MomentSnapshot) bool { return isConflict(m) && m.IsResolved })
		if conflicts == 0 {
			return fmt.Sprintf("You haven't logged any conflict moments with %s. When disagreements do come up, "+
				"slow down, stay on one topic and agree to take a break if either of you gets flooded.", c.Name)
		}
		return fmt.Sprintf("You've logged %d conflict moments with %s and marked %d as resolved. "+
			"Look at what the resolved ones had in common, whether it was timing, tone or who reached out first, "+
			"and make that your plan for the next disagreement.", conflicts, c.Name, resolved)
	}

	conflicts := countWhere(r.moments, isConflict)
	return fmt.Sprintf("Conflict is normal; what matters is repair. Across your moments there are %d conflicts logged. "+
		"Focus on the problem instead of the person, take a pause when emotions run high, "+
		"and always come back to close the loop.", conflicts)
}

func respondIntimacy(r *request) string {
	if c, ok := r.mentioned(); ok {
		ms := r.momentsWith(c.ID)
		intimate := countWhere(ms, isIntimate)
		return fmt.Sprintf("You've logged %d intimate moments out of %d with %s. Intimacy grows from feeling safe and seen, "+
			"so pair physical closeness with emotional openness and ask %s what makes them feel most connected.",
			intimate, len(ms), c.Name, c.Name)
	}

	if tip, ok := LoveLanguageTip(r.profile.LoveLanguage); ok {
		return fmt.Sprintf("Intimacy starts with feeling understood. Your love language is %s, so share that with your partner: %s. "+
			"Then ask about theirs and make room for both.", r.profile.LoveLanguage.Label(), tip)
	}
	return "Intimacy is built outside the bedroom as much as in it. Make time for slow, undistracted moments, " +
		"share something vulnerable, and keep a little novelty alive with new experiences together."
}

func respondCompatibility(r *request) string {
	if c, ok := r.mentioned(); ok {
		ms := r.momentsWith(c.ID)
		pos, neg := balance(ms)
		sign := ""
		if c.ZodiacSign != "" && r.profile.ZodiacSign != "" {
			sign = fmt.Sprintf("As a %s with a %s, you bring different strengths. ", r.profile.ZodiacSign, c.ZodiacSign)
		}
		return fmt.Sprintf("%sCompatibility shows up in how things feel over time. Your moments with %s are %s. "+
			"Shared values and how you handle hard days matter more than any chart.",
			sign, c.Name, describeBalance(pos, neg))
	}

	if r.profile.ZodiacSign != "" {
		return fmt.Sprintf("As a %s you may recognize some patterns in the stars, but compatibility really comes from "+
			"shared values, respect and how you repair after conflict. Your logged moments will tell you more than any sign.",
			r.profile.ZodiacSign)
	}
	return "Compatibility is less about matching on paper and more about shared values, mutual respect and " +
		"how you handle hard moments together. Notice who leaves you feeling more like yourself."
}

func respondLoveLanguage(r *request) string {
	if c, ok := r.mentioned(); ok {
		if tip, ok := LoveLanguageTip(c.LoveLanguage); ok {
			return fmt.Sprintf("%s's love language is %s, so %s. Small, consistent gestures in their language "+
				"count for more than grand ones in yours.", c.Name, c.LoveLanguage.Label(), tip)
		}
		return fmt.Sprintf("You haven't recorded %s's love language yet. Ask them when they feel most loved, "+
			"then add it to their profile so your advice can get more specific.", c.Name)
	}

	if tip, ok := LoveLanguageTip(r.profile.LoveLanguage); ok {
		return fmt.Sprintf("Your love language is %s: %s. Tell the people close to you, and learn theirs, "+
			"because we tend to give love the way we want to receive it.", r.profile.LoveLanguage.Label(), tip)
	}
	return "The five love languages are words of affirmation, quality time, receiving gifts, acts of service " +
		"and physical touch. Figure out which one makes you feel most loved, then ask the people you care about."
}

func respondGeneral(r *request) string {
	if c, ok := r.mentioned(); ok {
		ms := r.momentsWith(c.ID)
		pos, neg := balance(recent(ms))
		return fmt.Sprintf("Your recent moments with %s are %s. Keep doing what creates the good ones, "+
			"and pick one small habit to change around the hard ones. Celebrate progress with %s out loud.",
			c.Name, describeBalance(pos, neg), c.Name)
	}

	pos, neg := balance(r.moments)
	return fmt.Sprintf("Across all %d moments you've logged, things are %s. Strong relationships come from small, "+
		"repeated efforts: check in often, appreciate out loud and repair quickly after hard moments.",
		len(r.moments), describeBalance(pos, neg))
}
