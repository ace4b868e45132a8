package level

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/token"
)

// Check runs the cross-reference rules on a decoded level. src, when it
// exists, is used to attach source positions.
func Check(l *Level, src cue.Value) []error {
	var errs []error
	fail := func(code string, path string, format string, args ...any) {
		errs = append(errs, &LoadError{
			Code:    code,
			Message: fmt.Sprintf(format, args...),
			Pos:     position(src, path),
		})
	}

	if len(l.Recipes) == 0 {
		fail(ErrCodeNoRecipes, "recipes", "level %q has no recipes", l.Name)
	}
	if len(l.Actors) == 0 {
		fail(ErrCodeNoActors, "actors", "level %q has no actors", l.Name)
	}

	for _, name := range sortedKeys(l.Recipes) {
		for _, t := range l.Recipes[name].Ingredients {
			if _, ok := l.Ingredients[t]; !ok {
				fail(ErrCodeUnknownType, "recipes."+quote(name), "recipe %q uses unknown ingredient %q", name, t)
			}
		}
	}

	for _, id := range l.ApplianceIDs() {
		a := l.Appliances[id]
		path := "appliances." + quote(id)
		switch a.Kind {
		case "crate":
			if a.Ingredient == "" {
				fail(ErrCodeCrate, path, "crate %q has no ingredient", id)
			} else if _, ok := l.Ingredients[a.Ingredient]; !ok {
				fail(ErrCodeUnknownType, path, "crate %q dispenses unknown ingredient %q", id, a.Ingredient)
			}
		case "delivery":
			if a.ReturnTo == "" {
				break
			}
			target, ok := l.Appliances[a.ReturnTo]
			if !ok || target.Kind != "plate_return" {
				fail(ErrCodeReturnTarget, path, "delivery %q returns plates to %q, which is not a plate_return", id, a.ReturnTo)
			}
		}
		for _, s := range a.Stock {
			if msg := checkStock(l, a.Kind, s); msg != "" {
				fail(ErrCodeStock, path, "appliance %q: %s", id, msg)
			}
		}
	}
	return errs
}

func checkStock(l *Level, kind, stock string) string {
	switch stock {
	case StockPlate, StockDirtyPlate:
		switch kind {
		case "countertop", "crate", "sink", "plate_return":
			return ""
		}
		return fmt.Sprintf("%s cannot hold %s", kind, stock)
	case StockPot:
		switch kind {
		case "countertop", "stove", "crate":
			return ""
		}
		return fmt.Sprintf("%s cannot hold a pot", kind)
	}
	if _, ok := l.Ingredients[stock]; !ok {
		return fmt.Sprintf("unknown stock %q", stock)
	}
	switch kind {
	case "countertop", "chopping_board", "crate":
		return ""
	}
	return fmt.Sprintf("%s cannot hold ingredient %q", kind, stock)
}

func position(src cue.Value, path string) token.Pos {
	if !src.Exists() {
		return token.NoPos
	}
	v := src.LookupPath(cue.ParsePath(path))
	if !v.Exists() {
		return token.NoPos
	}
	return v.Pos()
}

func quote(label string) string {
	return fmt.Sprintf("%q", label)
}
