package cache

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"bookstore-order-api/internal/domain/campaign"
)

// The campaign payload is encoded by hand with jx: the shape is small and
// hot, prices round-trip as exact decimal strings, and absent rule fields
// stay absent instead of reappearing as zero values.

func encodeCampaigns(list []campaign.Campaign) []byte {
	var e jx.Encoder
	e.ArrStart()
	for i := range list {
		encodeCampaign(&e, &list[i])
	}
	e.ArrEnd()
	return e.Bytes()
}

func encodeCampaign(e *jx.Encoder, c *campaign.Campaign) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(c.ID)
	e.FieldStart("description")
	e.Str(c.Description)
	if c.MinPurchasePrice != nil {
		e.FieldStart("min_purchase_price")
		e.Str(c.MinPurchasePrice.String())
	}
	if c.MinPurchaseQuantity != nil {
		e.FieldStart("min_purchase_quantity")
		e.Int(*c.MinPurchaseQuantity)
	}
	if c.DiscountQuantity != nil {
		e.FieldStart("discount_quantity")
		e.Int(*c.DiscountQuantity)
	}
	if c.DiscountPercent != nil {
		e.FieldStart("discount_percent")
		e.Int(*c.DiscountPercent)
	}
	if c.RuleAuthor != nil {
		e.FieldStart("rule_author")
		e.Str(*c.RuleAuthor)
	}
	if c.RuleCategory != nil {
		e.FieldStart("rule_category")
		e.Str(*c.RuleCategory)
	}
	e.ObjEnd()
}

func decodeCampaigns(data []byte) ([]campaign.Campaign, error) {
	d := jx.DecodeBytes(data)
	var list []campaign.Campaign
	if err := d.Arr(func(d *jx.Decoder) error {
		c, err := decodeCampaign(d)
		if err != nil {
			return err
		}
		list = append(list, c)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode campaign list")
	}
	return list, nil
}

func decodeCampaign(d *jx.Decoder) (campaign.Campaign, error) {
	var c campaign.Campaign
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			v, err := d.Int64()
			if err != nil {
				return err
			}
			c.ID = v
		case "description":
			v, err := d.Str()
			if err != nil {
				return err
			}
			c.Description = v
		case "min_purchase_price":
			s, err := d.Str()
			if err != nil {
				return err
			}
			v, err := decimal.NewFromString(s)
			if err != nil {
				return errors.Wrap(err, "min_purchase_price")
			}
			c.MinPurchasePrice = &v
		case "min_purchase_quantity":
			v, err := d.Int()
			if err != nil {
				return err
			}
			c.MinPurchaseQuantity = &v
		case "discount_quantity":
			v, err := d.Int()
			if err != nil {
				return err
			}
			c.DiscountQuantity = &v
		case "discount_percent":
			v, err := d.Int()
			if err != nil {
				return err
			}
			c.DiscountPercent = &v
		case "rule_author":
			v, err := d.Str()
			if err != nil {
				return err
			}
			c.RuleAuthor = &v
		case "rule_category":
			v, err := d.Str()
			if err != nil {
				return err
			}
			c.RuleCategory = &v
		default:
			return d.Skip()
		}
		return nil
	})
	return c, err
}
